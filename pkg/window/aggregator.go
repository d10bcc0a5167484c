/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package window

// Aggregator folds values into an accumulator. Add must be commutative and CreateAccumulator must return the
// neutral element.
type Aggregator[V, A any] interface {
	CreateAccumulator() A
	Add(value V, acc A) A
}

// Number is the set of types Sum can add up.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

type sum[V any, N Number] struct {
	extract func(V) N
}

// SumBy returns an Aggregator adding up the numbers extracted from each value.
func SumBy[V any, N Number](extract func(V) N) Aggregator[V, N] {
	return sum[V, N]{extract: extract}
}

func (s sum[V, N]) CreateAccumulator() N {
	var zero N
	return zero
}

func (s sum[V, N]) Add(value V, acc N) N {
	return acc + s.extract(value)
}
