package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_SingleReplacement(t *testing.T) {
	src := []byte("Intro\n<!-- @include: ./setup.md -->\nOutro\n")
	old := []byte("<!-- @include: ./setup.md -->")
	idx := bytes.Index(src, old)
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len(old), Replacement: []byte("## Setup")}})
	require.NoError(t, err)
	require.Equal(t, "Intro\n## Setup\nOutro\n", string(out))
}

func TestApplyEdits_MultipleReplacementsAnyOrder(t *testing.T) {
	src := []byte("A: ./old.md\nB: ./old.md#frag\n")
	idx1 := bytes.Index(src, []byte("./old.md"))
	idx2 := bytes.LastIndex(src, []byte("./old.md#frag"))

	out, err := ApplyEdits(src, []Edit{
		{Start: idx2, End: idx2 + len("./old.md#frag"), Replacement: []byte("#frag")},
		{Start: idx1, End: idx1 + len("./old.md"), Replacement: []byte("./new.md")},
	})
	require.NoError(t, err)
	require.Equal(t, "A: ./new.md\nB: #frag\n", string(out))
}

func TestApplyEdits_CRLFInputPreserved(t *testing.T) {
	src := []byte("A: ./old.md\r\nB: ./old.md\r\n")
	idx := bytes.Index(src, []byte("./old.md"))

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len("./old.md"), Replacement: []byte("./new.md")}})
	require.NoError(t, err)
	require.Equal(t, "A: ./new.md\r\nB: ./old.md\r\n", string(out))
}

func TestApplyEdits_NoEditsReturnsSource(t *testing.T) {
	src := []byte("unchanged")
	out, err := ApplyEdits(src, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestApplyEdits_Rejects(t *testing.T) {
	src := []byte("abcdef")

	_, err := ApplyEdits(src, []Edit{
		{Start: 1, End: 4, Replacement: []byte("X")},
		{Start: 3, End: 5, Replacement: []byte("Y")},
	})
	require.ErrorIs(t, err, ErrOverlappingEdits)

	_, err = ApplyEdits(src, []Edit{{Start: 4, End: 2}})
	require.Error(t, err)

	_, err = ApplyEdits(src, []Edit{{Start: 0, End: 99}})
	require.Error(t, err)
}
