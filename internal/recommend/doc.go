// Coldstart - Cold-Start Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coldstart

/*
Package recommend ranks catalog titles for a user who has no watch history.

A request runs in three stages:

 1. The Aggregator issues one discovery query per requested media kind and
    one similar-titles query for each of the first favorites. Calls run
    concurrently, each under its own timeout, and are merged in call order.
 2. Rank removes every candidate that carries a blocked genre of its own
    kind.
 3. The survivors are scored with a fixed linear model and sorted.

# Scoring

Every factor is in [0, 1]:

	score = 5*G + 6*S + 1*L + 2*R + 1*P + 0.7*T + 0.7*M + 0.7*C + 0.5*Type

	G     Jaccard(candidate genres, liked genres of the candidate's kind)
	S     min(1, favorite match count / 3)
	L     1 when the original language is one of the user's languages
	R     vote average / 10
	P     log1p(popularity) / log1p(1000)
	T,M,C Jaccard against the pace, mood and complexity signal sets,
	      0.5 when the user has no preference
	Type  1 or 0 for a single preferred kind, 0.5 for both

Ties keep pool order, so identical inputs always produce identical rankings.
*/
package recommend
