package api

import (
	"xwords/internal/database"
	"xwords/internal/output"
	"xwords/pkg/api"
)

func convertOutputFiles(fs []output.File) []api.File {
	files := make([]api.File, 0, len(fs))
	for _, f := range fs {
		files = append(files, api.File{Name: f.Name, Count: f.Count})
	}
	return files
}

func convertRun(r database.Run) api.Run {
	run := api.Run{
		Id:            r.Id,
		Mode:          r.Mode,
		Intent:        r.Intent,
		Status:        r.Status,
		TrainingRatio: r.TrainingRatio,
		Count:         r.ItemCount,
		Location:      r.Location,
		CreationTime:  r.CreationTime,
		Files:         make([]api.File, 0, len(r.Files)),
	}

	if r.Error.Valid {
		run.Error = r.Error.String
	}
	if r.Seed.Valid {
		seed := r.Seed.Int64
		run.Seed = &seed
	}
	if r.CompletionTime.Valid {
		t := r.CompletionTime.Time
		run.CompletionTime = &t
	}

	for _, f := range r.Files {
		run.Files = append(run.Files, api.File{Name: f.Name, Count: f.Count})
	}

	return run
}

func convertRuns(rs []database.Run) []api.Run {
	runs := make([]api.Run, 0, len(rs))
	for _, r := range rs {
		runs = append(runs, convertRun(r))
	}
	return runs
}
