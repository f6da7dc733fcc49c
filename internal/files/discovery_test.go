package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")
	assert.NotNil(t, discovery)
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestFindExcelFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedCount int
		description   string
	}{
		{
			name:          "only Excel files",
			files:         []string{"report1.xlsx", "report2.xls", "report3.XLSX"},
			expectedCount: 3,
			description:   "Should find all Excel files regardless of case",
		},
		{
			name:          "mixed file types",
			files:         []string{"report.xlsx", "data.csv", "doc.pdf", "sheet.xls"},
			expectedCount: 2,
			description:   "Should find only Excel files",
		},
		{
			name:          "no Excel files",
			files:         []string{"data.csv", "doc.pdf", "readme.txt"},
			expectedCount: 0,
			description:   "Should find no Excel files",
		},
		{
			name:          "empty directory",
			files:         []string{},
			expectedCount: 0,
			description:   "Should handle empty directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery(tmpDir)

			for _, file := range tt.files {
				err := os.WriteFile(filepath.Join(tmpDir, file), []byte("test"), 0644)
				require.NoError(t, err)
			}

			found, err := discovery.FindExcelFiles(tmpDir)
			require.NoError(t, err)
			assert.Len(t, found, tt.expectedCount, tt.description)
		})
	}
}

func TestFindExcelFilesSkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested.xlsx"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "real.xlsx"), []byte("x"), 0644))

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.FindExcelFiles(tmpDir)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, "real.xlsx", found[0].Name)
}

func TestFind_UsesBasePath(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.xlsx"), []byte("x"), 0644))

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.Find()
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(tmpDir, "a.xlsx"), found[0].Path)
}

func TestFindExcelFilesRelativeDir(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "monthly"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "monthly", "a.xls"), []byte("x"), 0644))

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.FindExcelFiles("monthly")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a.xls", found[0].Name)
}

func TestFindExcelFilesMissingDir(t *testing.T) {
	discovery := NewDiscovery(t.TempDir())
	_, err := discovery.FindExcelFiles("does-not-exist")
	assert.Error(t, err)
}

func TestIsExcelFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.xlsx", true},
		{"report.xls", true},
		{"REPORT.XLSX", true},
		{"report.csv", false},
		{"reportxlsx", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExcelFile(tt.name))
		})
	}
}

func TestSortByName(t *testing.T) {
	files := []FileInfo{
		{Name: "c.xlsx"},
		{Name: "a.xlsx"},
		{Name: "b.xls"},
	}

	SortByName(files)

	assert.Equal(t, "a.xlsx", files[0].Name)
	assert.Equal(t, "b.xls", files[1].Name)
	assert.Equal(t, "c.xlsx", files[2].Name)
}
