// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import "math/big"

// functions for Prime number calculations, used to size hash tables so that
// chain lengths stay short.

func hasFactor(src int, n int) bool {
	return (src != n) && (src%n == 0)
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

// PrimeGTE returns the smallest prime greater than or equal to src.
func PrimeGTE(src int) int {
	if src <= 2 {
		return 2
	}
	if src%2 == 0 {
		src++
	}
	for {
		if hasEasyFactors(src) {
			src += 2
			continue
		}
		// ProbablyPrime is 100% accurate for inputs less than 2^64.
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src += 2
	}
}

// PrimeLTE returns the largest prime less than or equal to src.
func PrimeLTE(src int) int {
	if src <= 2 {
		return 2
	}
	if src%2 == 0 {
		src--
	}
	for {
		if hasEasyFactors(src) {
			src -= 2
			continue
		}
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src -= 2
	}
}
