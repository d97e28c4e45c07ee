package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlPool = `job:
  id: j9
  title: Backend Engineer
  department: Platform
  required-skills:
    Go: 80
    PostgreSQL: 70
candidates:
  - id: c1
    name: Marco Rossi
    role: Senior Backend Engineer
    employability-score: 88
    work-preference: REMOTE
    skills:
      Go: 90
      PostgreSQL: 60
  - name: Anna Verdi
    role: Data Engineer
    skills:
      SQL: 85
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	pool, err := Load(writeFile(t, "pool.yaml", yamlPool))
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", pool.Job.Title)
	assert.Equal(t, 80, pool.Job.RequiredSkills["Go"])
	assert.Equal(t, 70, pool.Job.RequiredSkills["PostgreSQL"], "skill names keep their case")

	require.Len(t, pool.Candidates, 2)
	assert.Equal(t, "c1", pool.Candidates[0].ID)
	assert.Equal(t, 88, pool.Candidates[0].EmployabilityScore)
	assert.Equal(t, "REMOTE", pool.Candidates[0].WorkPreference)

	_, err = uuid.Parse(pool.Candidates[1].ID)
	assert.NoError(t, err, "missing ids are generated")
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	content := `{
		"job": {"id": "j1", "title": "Designer", "requiredSkills": {"UX Research": 80}},
		"candidates": [{"id": "a", "name": "Ada", "employabilityScore": 70, "skills": {"UX Research": 75}}]
	}`

	pool, err := Load(writeFile(t, "pool.json", content))
	require.NoError(t, err)

	assert.Equal(t, 80, pool.Job.RequiredSkills["UX Research"])
	assert.Equal(t, 75, pool.Candidates[0].Skills["UX Research"])
	assert.Equal(t, 70, pool.Candidates[0].EmployabilityScore)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "unsupported extension",
			file:    "pool.toml",
			content: "job = 1",
		},
		{
			name:    "level above range",
			file:    "pool.yaml",
			content: "job:\n  title: x\ncandidates:\n  - id: a\n    name: A\n    skills:\n      Go: 120\n",
		},
		{
			name:    "negative required level",
			file:    "pool.yaml",
			content: "job:\n  title: x\n  required-skills:\n    Go: -1\n",
		},
		{
			name:    "empty skill name",
			file:    "pool.json",
			content: `{"job": {"title": "x"}, "candidates": [{"id": "a", "name": "A", "skills": {"": 10}}]}`,
		},
		{
			name:    "missing candidate name",
			file:    "pool.yaml",
			content: "candidates:\n  - id: a\n",
		},
		{
			name:    "unknown work preference",
			file:    "pool.yaml",
			content: "candidates:\n  - id: a\n    name: A\n    work-preference: MOON\n",
		},
		{
			name:    "duplicate ids",
			file:    "pool.yaml",
			content: "candidates:\n  - id: a\n    name: A\n  - id: a\n    name: B\n",
		},
		{
			name:    "unknown field",
			file:    "pool.yaml",
			content: "job:\n  salary: 10\n",
		},
		{
			name:    "malformed json",
			file:    "pool.json",
			content: `{"job":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	t.Parallel()

	pool := Demo()
	require.NoError(t, pool.Validate())

	assert.Equal(t, "Lead Product Designer", pool.Job.Title)
	require.Len(t, pool.Candidates, 2)

	first, err := pool.Candidate("")
	require.NoError(t, err)
	assert.Equal(t, "rp1", first.ID)

	sara, err := pool.Candidate("2")
	require.NoError(t, err)
	assert.Equal(t, "Sara Baccelli", sara.Name)

	_, err = pool.Candidate("nope")
	assert.Error(t, err)

	_, err = (&Pool{}).Candidate("")
	assert.Error(t, err)
}
