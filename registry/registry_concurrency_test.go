/*
   Copyright 2025 The DIRPX Authors.

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

package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ffx/apis"
)

// Runs are expected to be safe concurrently once the setup phase is over:
// each run gets a fresh strategy, and the sequence counter is atomic.
func TestConcurrentRuns(t *testing.T) {
	r := newRegistry(t)
	err := r.Define("user", func(f apis.FactoryDef) error {
		if err := f.Attribute("first_name", "Jane"); err != nil {
			return err
		}
		return f.Sequence("email", func(n int64) any {
			return fmt.Sprintf("u%d@example.com", n)
		})
	})
	require.NoError(t, err)

	const (
		goroutines = 16
		perG       = 25
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[any]bool)
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				attrs, err := r.AttributesFor("user", nil)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				seen[attrs["email"]] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perG, "every run draws a distinct sequence value")
}

func TestConcurrentBuilds_DoNotShareInstances(t *testing.T) {
	r := newRegistry(t)
	defineUser(t, r)

	const n = 50
	out := make([]any, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := r.Build("user", nil)
			if err != nil {
				t.Error(err)
				return
			}
			out[i] = v
		}(i)
	}
	wg.Wait()

	distinct := make(map[any]bool, n)
	for _, v := range out {
		require.NotNil(t, v)
		distinct[v] = true
	}
	assert.Len(t, distinct, n)
}
