package moderation

import (
	"chat-core/errors"
	"embed"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/words/*.txt testdata/blank/*.txt
var testFS embed.FS

func TestLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	dictionary, err := NewLoader(testFS).LoadAll("testdata/words")

	req.NoError(err)
	// Duplicates and blank lines are dropped
	req.ElementsMatch([]string{"badger", "snake", "vipere"}, dictionary.Words)
	req.ElementsMatch([]string{"en", "fr"}, dictionary.Languages)
}

func TestLoader_EmptyDictionary(t *testing.T) {
	req := require.New(t)

	_, err := NewLoader(testFS).LoadAll("testdata/blank")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestLoader_MissingDirectory(t *testing.T) {
	req := require.New(t)

	_, err := NewLoader(testFS).LoadAll("testdata/nope")

	req.Error(err)
}
