package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	be.Err(t, os.MkdirAll(filepath.Dir(path), 0755), nil)
	be.Err(t, os.WriteFile(path, []byte(content), 0644), nil)
}

func TestCollectBuildJobs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "a.zac"), "let a = 1")
	writeFile(t, filepath.Join(src, "sub", "b.zac"), "let b = 2")
	writeFile(t, filepath.Join(src, "README.md"), "# notes")

	jobs, err := collectBuildJobs(src, out)
	be.Err(t, err, nil)
	be.Equal(t, jobs, []buildJob{
		{source: filepath.Join(src, "a.zac"), output: filepath.Join(out, "a.jsx")},
		{source: filepath.Join(src, "sub", "b.zac"), output: filepath.Join(out, "sub", "b.jsx")},
	})
}

func TestCollectBuildJobsMissingDir(t *testing.T) {
	_, err := collectBuildJobs(filepath.Join(t.TempDir(), "nope"), "out")
	be.Err(t, err, "scanning")
}

func TestRunBuildJob(t *testing.T) {
	dir := t.TempDir()
	job := buildJob{
		source: filepath.Join(dir, "app.zac"),
		output: filepath.Join(dir, "build", "nested", "app.jsx"),
	}
	writeFile(t, job.source, "mod m { fn id(x) { return x } }\nm.id(5)")

	be.Err(t, runBuildJob(job, false), nil)
	got, err := os.ReadFile(job.output)
	be.Err(t, err, nil)
	be.Equal(t, string(got), "function m_id(x) {\n  return x\n}\n\nm_id(5)\n")
}

func TestRunBuildJobFailures(t *testing.T) {
	dir := t.TempDir()
	job := buildJob{source: filepath.Join(dir, "bad.zac"), output: filepath.Join(dir, "bad.jsx")}
	writeFile(t, job.source, "let a = nope")

	err := runBuildJob(job, false)
	be.True(t, errors.Is(err, errCompileFailed))
	_, err = os.Stat(job.output)
	be.True(t, errors.Is(err, os.ErrNotExist))

	missing := buildJob{source: filepath.Join(dir, "missing.zac"), output: filepath.Join(dir, "missing.jsx")}
	be.Err(t, runBuildJob(missing, false), "reading")
}
