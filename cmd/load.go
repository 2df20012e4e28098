// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
)

// analyzedStore is a store file with its analysis results.
type analyzedStore struct {
	Path  string
	Store *fir.PackageStore
	Props *rca.PackageStoreComputeProperties
}

// analyzeFiles loads and analyzes each store file.  Files are independent
// and analyzed concurrently; results keep the order of paths.
func analyzeFiles(ctx context.Context, paths []string, opts []rca.Option) ([]*analyzedStore, error) {
	results := make([]*analyzedStore, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			store, err := fir.LoadStoreFile(path)
			if err != nil {
				return err
			}
			props := rca.New(store, opts...).AnalyzeAll(ctx)
			results[i] = &analyzedStore{Path: path, Store: store, Props: props}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// packages returns the IDs of the packages named in names, or of every
// package when names is empty.
func (s *analyzedStore) packages(names []string) ([]fir.PackageID, error) {
	ids := s.Store.IDs()
	if len(names) == 0 {
		return ids, nil
	}
	byName := make(map[string]fir.PackageID, len(ids))
	for _, id := range ids {
		byName[s.Store.Get(id).Name] = id
	}
	var out []fir.PackageID
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%s: no package named %q", s.Path, name)
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// sources maps source names to their text for every package of stores.
func sources(stores []*analyzedStore) map[string]string {
	m := make(map[string]string)
	for _, s := range stores {
		for _, id := range s.Store.IDs() {
			if src := s.Store.Get(id).Source; src.Name != "" {
				m[src.Name] = src.Contents
			}
		}
	}
	return m
}
