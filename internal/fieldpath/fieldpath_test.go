package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStaticPrefersIndexForDigits(t *testing.T) {
	path := ParseStatic("media.0.url")
	assert.Equal(t, Path{KeySeg("media"), IndexSeg(0), KeySeg("url")}, path)
	assert.Equal(t, "media.0.url", path.String())
}

func TestParseWithAncestorAwareClassifier(t *testing.T) {
	isSeq := func(prefix Path) bool {
		return prefix.String() == "media"
	}
	path := Parse("media.0.url", isSeq)
	assert.Equal(t, Path{KeySeg("media"), IndexSeg(0), KeySeg("url")}, path)

	// "legacyIds.0" is never under a sequence, so "0" stays a Key.
	notSeq := func(Path) bool { return false }
	path2 := Parse("legacyIds.0", notSeq)
	assert.Equal(t, Path{KeySeg("legacyIds"), KeySeg("0")}, path2)
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := Path{KeySeg("media")}
	extended := base.Append(IndexSeg(0))

	assert.Len(t, base, 1)
	assert.Len(t, extended, 2)
}

func TestLeafAndAncestorKeyPath(t *testing.T) {
	path := Path{KeySeg("media"), IndexSeg(2), KeySeg("url")}

	leaf, ok := path.Leaf()
	assert.True(t, ok)
	assert.Equal(t, KeySeg("url"), leaf)

	ancestor := path.AncestorKeyPath()
	assert.Equal(t, Path{KeySeg("media"), IndexSeg(2)}, ancestor)

	empty := Path{}
	_, ok = empty.Leaf()
	assert.False(t, ok)
	assert.Nil(t, empty.AncestorKeyPath())
}
