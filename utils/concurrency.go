// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package utils

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

type errGroup[T any] struct {
	group *errgroup.Group

	mut     sync.Mutex
	results []T
}

// ErrGroup runs tasks concurrently, at most concurrency at a time, and
// collects their results. The first error wins, remaining tasks still
// finish before WaitAndCollect returns.
func ErrGroup[T any](concurrency int) *errGroup[T] {
	group := &errgroup.Group{}
	if concurrency > 0 {
		group.SetLimit(concurrency)
	}
	return &errGroup[T]{group: group}
}

func (g *errGroup[T]) Go(fn func() (T, error)) {
	g.group.Go(func() error {
		result, err := fn()
		if err != nil {
			return err
		}
		g.mut.Lock()
		g.results = append(g.results, result)
		g.mut.Unlock()
		return nil
	})
}

func (g *errGroup[T]) WaitAndCollect() ([]T, error) {
	if err := g.group.Wait(); err != nil {
		return nil, err
	}
	return g.results, nil
}
