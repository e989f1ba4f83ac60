// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

// applyCache is a single *ddkit.CacheTable, allocated in New, memoizing
// both the not and apply recursions below; a dedicated op tag on not's
// entries keeps them from colliding with a real binary operator's.

// The hash for a Not operation is simply n; we reuse the apply cache with a
// dedicated op tag so it cannot collide with a real binary operator.
func (b *bdd) matchnot(n int) int {
	if res, ok := b.applyCache.LookupUnary(int(op_not), n); ok {
		return res
	}
	return -1
}

func (b *bdd) setnot(n int, res int) int {
	if res < 0 {
		b.seterror("problem in call to not")
		return -1
	}
	b.applyCache.StoreUnary(int(op_not), n, res)
	return res
}

func (b *bdd) matchapply(left, right int) int {
	if res, ok := b.applyCache.Lookup(b.applyOp, left, right); ok {
		return res
	}
	return -1
}

func (b *bdd) setapply(left, right, res int) int {
	if res < 0 {
		b.seterror("problem in call to apply(%d,%d,%s)", left, right, Operator(b.applyOp))
		return -1
	}
	b.applyCache.Store(b.applyOp, left, right, res)
	return res
}
