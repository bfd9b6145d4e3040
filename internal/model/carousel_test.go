package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNiche_Valid(t *testing.T) {
	for _, n := range Niches {
		assert.True(t, Niche(n.Value).Valid(), n.Value)
	}
	assert.False(t, Niche("Cooking").Valid())
	assert.False(t, Niche("").Valid())
	assert.True(t, NicheLatestNews.IsNews())
	assert.False(t, NicheCEODiary.IsNews())
}

func TestImageStyle_Valid(t *testing.T) {
	assert.Len(t, ImageStyles, 5)
	for _, s := range ImageStyles {
		assert.True(t, ImageStyle(s.Value).Valid(), s.Value)
	}
	assert.False(t, ImageStyle("Watercolor").Valid())
}

func TestZipPosts(t *testing.T) {
	posts, ok := ZipPosts([]string{"a", "b"}, []string{"img-a", "img-b"})
	assert.True(t, ok)
	assert.Equal(t, []CarouselPost{{Content: "a", Image: "img-a"}, {Content: "b", Image: "img-b"}}, posts)

	_, ok = ZipPosts([]string{"a"}, nil)
	assert.False(t, ok)
}

func TestSession_CloneAndFlags(t *testing.T) {
	s := &Session{State: SessionTextReady, ContentOptions: []string{"x"}}
	c := s.Clone()
	c.ContentOptions[0] = "y"

	assert.Equal(t, "x", s.ContentOptions[0])
	assert.True(t, s.HasContent())
	assert.False(t, s.Busy())

	s.State = SessionImagesPending
	assert.True(t, s.Busy())
	assert.False(t, s.HasContent())
}
