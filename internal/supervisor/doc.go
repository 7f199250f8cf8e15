// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package supervisor runs the long-lived parts of the service under a
suture/v4 supervision tree.

	coldstart (root)
	├── data-layer
	│   └── taxonomy-warmup
	└── api-layer
	    └── http-server

Suture restarts a service whose Serve returns an error other than the
context's, with exponential backoff once FailureThreshold is crossed within
FailureDecay seconds. Events are logged through sutureslog, so main passes a
*slog.Logger bridged onto the zerolog output (see logging.NewSlogLogger).

Shutdown: cancel the context given to Serve or ServeBackground. Each service
is given ShutdownTimeout to return; stragglers show up in
UnstoppedServiceReport.
*/
package supervisor
