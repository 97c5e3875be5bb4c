// Package botutil holds small helpers plugins share.
package botutil

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"math/rand/v2"
)

// RandomInt returns a uniform integer in the closed interval [lo, hi].
// Reversed bounds are swapped.
func RandomInt(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + rand.IntN(hi-lo+1)
}

// RandomItem returns a uniformly chosen element. An empty slice yields the
// zero value and false.
func RandomItem[T any](items []T) (T, bool) {
	if len(items) == 0 {
		slog.Warn("botutil: random item from empty slice")
		var zero T
		return zero, false
	}
	return items[rand.IntN(len(items))], true
}

// MD5 returns the lowercase hex MD5 digest of s.
func MD5(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
