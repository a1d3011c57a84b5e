package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/pkg/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exported(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.json")
	_, err := run(t, "export", "--path", path)
	require.NoError(t, err)
	return path
}

func TestExportAndValidate(t *testing.T) {
	path := exported(t)

	out, err := run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 activities")
}

func TestList(t *testing.T) {
	path := exported(t)

	out, err := run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TASK TYPE")
	assert.Contains(t, out, "recommend-jobs")
	assert.Contains(t, out, "scout-candidates")
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr string
		check   func(t *testing.T, a *registry.Activity)
	}{
		{
			name: "timeout", field: "timeout", value: "45s",
			check: func(t *testing.T, a *registry.Activity) { assert.Equal(t, "45s", a.Timeout) },
		},
		{
			name: "retries", field: "retries", value: "5",
			check: func(t *testing.T, a *registry.Activity) { assert.Equal(t, 5, a.Retries) },
		},
		{
			name: "status", field: "status", value: "verified",
			check: func(t *testing.T, a *registry.Activity) { assert.Equal(t, "verified", a.ImplementationStatus) },
		},
		{name: "bad timeout", field: "timeout", value: "soon", wantErr: "invalid timeout"},
		{name: "negative retries", field: "retries", value: "-1", wantErr: "invalid retries"},
		{name: "bad status", field: "status", value: "done", wantErr: "invalid status"},
		{name: "unknown field", field: "owner", value: "x", wantErr: "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := exported(t)

			_, err := run(t, "update", "--path", path, "--id", "recommend-jobs", "--field", tt.field, "--value", tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			reg, err := registry.LoadRegistry(path)
			require.NoError(t, err)
			activity, ok := reg.Find("recommend-jobs")
			require.True(t, ok)
			tt.check(t, activity)
			assert.NotEmpty(t, reg.LastUpdated)
		})
	}
}

func TestUpdate_UnknownActivity(t *testing.T) {
	path := exported(t)
	_, err := run(t, "update", "--path", path, "--id", "nope", "--field", "version", "--value", "2.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdate_RequiresFlags(t *testing.T) {
	_, err := run(t, "update", "--path", exported(t), "--id", "recommend-jobs")
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	path := exported(t)

	_, err := run(t, "add", "--path", path, "--id", "rank-candidates",
		"--displayName", "Rank Candidates", "--description", "Orders scouted candidates")
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	activity, ok := reg.Find("rank-candidates")
	require.True(t, ok)
	assert.Equal(t, "matching", activity.Category)
	assert.Equal(t, "planned", activity.ImplementationStatus)

	_, err = run(t, "add", "--path", path, "--id", "rank-candidates",
		"--displayName", "Rank Candidates", "--description", "dup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAdd_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	_, err := run(t, "add", "--path", path, "--id", "compute-match",
		"--displayName", "Compute Match", "--description", "Scores one pair")
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 1)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := run(t, "validate", "--path", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
