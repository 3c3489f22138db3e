// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package categorytree

import (
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// MatchText reports whether resource matches the filter text and, if
// so, the rune positions of the match within [resource.Resource.Label].
// Empty text matches everything with no positions.
//
// Matching is a case-insensitive substring search against DisplayName
// when present, otherwise Name. A resource with a DisplayName is never
// matched by its Name.
func MatchText(candidate resource.Resource, text string) (bool, []int) {
	if text == "" {
		return true, nil
	}
	pattern := []rune(strings.ToLower(text))
	chars := util.ToChars([]byte(candidate.Label()))
	result, positions := algo.ExactMatchNaive(false, false, true, &chars, pattern, true, nil)
	if result.Start < 0 {
		return false, nil
	}
	// The exact matchers report the span only; positions are derived
	// from it the same way fzf's pattern layer does.
	if positions != nil && len(*positions) > 0 {
		matched := slices.Clone(*positions)
		slices.Sort(matched)
		return true, matched
	}
	matched := make([]int, 0, result.End-result.Start)
	for index := result.Start; index < result.End; index++ {
		matched = append(matched, index)
	}
	return true, matched
}

// Matches is MatchText without positions.
func Matches(candidate resource.Resource, text string) bool {
	matched, _ := MatchText(candidate, text)
	return matched
}
