package service

import "context"

// SweepResult summarizes one orphan-blob sweep.
type SweepResult struct {
	Candidates int      `json:"candidates"`
	Deleted    int      `json:"deleted"`
	Failed     int      `json:"failed"`
	DryRun     bool     `json:"dryRun"`
	Orphans    []string `json:"orphans,omitempty"`
}

// SweepOrphanBlobs finds blobs no attachment row references and, when apply
// is set, deletes them. Orphans accumulate from crashes between blob save
// and row insert, and from delete paths where blob removal failed.
func (s *AttachmentService) SweepOrphanBlobs(ctx context.Context, apply bool) (SweepResult, error) {
	result := SweepResult{DryRun: !apply}

	onDisk, err := s.blobs.List(ctx)
	if err != nil {
		return result, err
	}
	fileNames, err := s.store.ListFileNames(ctx)
	if err != nil {
		return result, err
	}

	referenced := make(map[string]struct{}, len(fileNames))
	for _, name := range fileNames {
		referenced[name] = struct{}{}
	}

	for _, name := range onDisk {
		if _, ok := referenced[name]; ok {
			continue
		}
		result.Candidates++
		result.Orphans = append(result.Orphans, name)
		if !apply {
			continue
		}
		if err := s.blobs.Delete(ctx, name); err != nil {
			s.logger.Warn("sweep orphan blob", "storage_name", name, "error", err)
			result.Failed++
			continue
		}
		result.Deleted++
	}

	if apply {
		s.logger.Info("orphan blob sweep", "candidates", result.Candidates, "deleted", result.Deleted, "failed", result.Failed)
	}
	return result, nil
}
