package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempBoardFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "board.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFromFile_ValidLayout(t *testing.T) {
	path := writeTempBoardFile(t, "2x2\nA\nA\nB\nB\n")
	b, err := ParseFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, b.NumRows())
	require.Equal(t, 2, b.NumCols())

	pic, err := b.PictureAt(0, 0)
	require.NoError(t, err)
	require.Equal(t, "A", pic)

	up, err := b.IsFaceUp(0, 0)
	require.NoError(t, err)
	require.False(t, up)
}

func TestParseFromFile_InvalidCard(t *testing.T) {
	path := writeTempBoardFile(t, "2x2\nA\nA x\nB\nB\n")
	_, err := ParseFromFile(path)
	require.ErrorIs(t, err, ErrInvalidCard)
}

func TestParseFromFile_InvalidHeader(t *testing.T) {
	path := writeTempBoardFile(t, "2 by 2\nA\nA\nB\nB\n")
	_, err := ParseFromFile(path)
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestParseFromFile_WrongCardCount(t *testing.T) {
	path := writeTempBoardFile(t, "2x2\nA\nA\nB\n")
	_, err := ParseFromFile(path)
	require.ErrorIs(t, err, ErrWrongCardCount)
}

func TestParseFromFile_EmptyFile(t *testing.T) {
	path := writeTempBoardFile(t, "")
	_, err := ParseFromFile(path)
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestParseFromFile_NoneToken(t *testing.T) {
	path := writeTempBoardFile(t, "1x2\nA\nnone\n")
	b, err := ParseFromFile(path)
	require.NoError(t, err)
	pic, err := b.PictureAt(0, 1)
	require.NoError(t, err)
	require.Equal(t, "", pic)
}

func TestParseFromFile_CRLFNormalized(t *testing.T) {
	path := writeTempBoardFile(t, "2x2\r\nA\r\nA\r\nB\r\nB\r\n")
	b, err := ParseFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, b.NumRows())
}

func TestPicturesDumpRoundTrip(t *testing.T) {
	content := "2x2\nA\nA\nB\nB\n"
	path := writeTempBoardFile(t, content)
	b, err := ParseFromFile(path)
	require.NoError(t, err)
	require.Equal(t, content, b.PicturesDump())
}

func TestPicturesDumpSubstitutesNone(t *testing.T) {
	content := "1x2\nA\nnone\n"
	path := writeTempBoardFile(t, content)
	b, err := ParseFromFile(path)
	require.NoError(t, err)
	require.Equal(t, content, b.PicturesDump())
}
