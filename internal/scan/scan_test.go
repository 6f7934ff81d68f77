package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
)

func writeFile(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Entreprise A", "CNI_DUPONT.pdf")
	writeFile(t, root, "Entreprise A", "habilitation_dupont.jpg")
	writeFile(t, root, "Entreprise B", "chantier", "FDS_Acetone.pdf")
	writeFile(t, root, "aptitude_frigo.png")
	writeFile(t, root, "Entreprise A", "notes.txt")
	writeFile(t, root, ".archive", "CNI_OLD.pdf")
	writeFile(t, root, "Entreprise B", ".CNI_HIDDEN.pdf")

	s := NewScanner(nil)
	docs, stats, err := s.ScanDirectory(root)
	require.NoError(t, err)

	require.Len(t, docs, 4)
	byName := map[string]Document{}
	for _, d := range docs {
		byName[d.Filename] = d
	}

	cni := byName["CNI_DUPONT.pdf"]
	assert.Equal(t, "Entreprise A", cni.Company)
	assert.Equal(t, constants.IdentityCard, cni.Type)
	assert.Equal(t, constants.PDF, cni.Format)

	hab := byName["habilitation_dupont.jpg"]
	assert.Equal(t, constants.ElectricalAuthorization, hab.Type)
	assert.Equal(t, constants.Image, hab.Format)

	// Nested folders still attribute to the top-level company folder.
	fds := byName["FDS_Acetone.pdf"]
	assert.Equal(t, "Entreprise B", fds.Company)
	assert.Equal(t, constants.SafetyDataSheet, fds.Type)

	// A file directly under the root belongs to no company.
	frigo := byName["aptitude_frigo.png"]
	assert.Equal(t, UnspecifiedCompany, frigo.Company)
	assert.Equal(t, constants.RefrigerationAptitude, frigo.Type)

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(1), stats.Unsupported)
	assert.Equal(t, uint32(2), stats.Hidden)
	assert.Equal(t, uint32(0), stats.Unclassified)
}

func TestScanDirectoryDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "B", "cni_b.pdf")
	writeFile(t, root, "A", "cni_a.pdf")
	writeFile(t, root, "A", "fds_a.pdf")

	s := NewScanner(nil)
	docs, _, err := s.ScanDirectory(root)
	require.NoError(t, err)

	var names []string
	for _, d := range docs {
		names = append(names, d.Filename)
	}
	assert.Equal(t, []string{"cni_a.pdf", "fds_a.pdf", "cni_b.pdf"}, names)
}

func TestScanDirectoryUnclassified(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Entreprise A", "document_inconnu.pdf")

	s := NewScanner(nil)
	docs, stats, err := s.ScanDirectory(root)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, constants.UnknownDocType, docs[0].Type)
	assert.Equal(t, uint32(1), stats.Unclassified)
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	s := NewScanner(nil)
	_, _, err := s.ScanDirectory("  ")
	assert.Error(t, err)
}

func TestScanDirectoryMissingRoot(t *testing.T) {
	s := NewScanner(nil)
	docs, stats, err := s.ScanDirectory(filepath.Join(t.TempDir(), "absent"))
	// The walk callback swallows the error to keep batches going; nothing is
	// found and the failure is counted.
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, uint32(1), stats.Failed)
}
