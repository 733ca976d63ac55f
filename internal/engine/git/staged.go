package git

import (
	"context"
	"fmt"
)

// CollectStaged reads the staged content of every staged path accepted by keep.
// A nil keep accepts everything.
func CollectStaged(ctx context.Context, svc Service, keep func(path string) bool) ([]StagedFile, error) {
	paths, err := svc.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}

	var files []StagedFile
	for _, p := range paths {
		if keep != nil && !keep(p) {
			continue
		}
		content, err := svc.ShowStaged(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("collecting staged sources: %w", err)
		}
		files = append(files, StagedFile{Path: p, Content: content})
	}
	return files, nil
}
