package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsDelimitedBlock(t *testing.T) {
	raw := `Here are some books you might love! <!--REC_START-->[{"title":"X","author":"Y"}]<!--REC_END--> Happy reading!`

	recs, visible, ok := Recommendations(raw)
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.Equal(t, "X", recs[0].Title)
	assert.Equal(t, "Y", recs[0].Author)

	assert.NotContains(t, visible, "REC_START")
	assert.NotContains(t, visible, "REC_END")
	assert.NotContains(t, visible, `"title"`)
	assert.Contains(t, visible, "Here are some books you might love!")
	assert.Contains(t, visible, "Happy reading!")
}

func TestRecommendationsFencedBlock(t *testing.T) {
	raw := "Try these. <!--REC_START-->```json\n[{\"title\":\"A\",\"author\":\"B\",\"rating\":4.5}]\n```<!--REC_END-->"

	recs, visible, ok := Recommendations(raw)
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.Equal(t, 4.5, recs[0].Rating)
	assert.Equal(t, "Try these.", visible)
}

func TestRecommendationsBareBracketMatch(t *testing.T) {
	raw := `I found a few options [{"title":"One"},{"title":"Two"}] for you.`

	recs, visible, ok := Recommendations(raw)
	require.True(t, ok)
	assert.Len(t, recs, 2)
	assert.Equal(t, "I found a few options  for you.", visible)
}

func TestRecommendationsMalformedBlockStillHidden(t *testing.T) {
	raw := `Reply text <!--REC_START-->[{"title": broken<!--REC_END--> more text`

	recs, visible, ok := Recommendations(raw)
	assert.False(t, ok)
	assert.Nil(t, recs)
	assert.NotContains(t, visible, "broken")
	assert.NotContains(t, visible, "REC_START")
}

func TestRecommendationsNoPayload(t *testing.T) {
	recs, visible, ok := Recommendations("What genre are you in the mood for?")
	assert.False(t, ok)
	assert.Nil(t, recs)
	assert.Equal(t, "What genre are you in the mood for?", visible)
}

func TestRecommendationsEmptyArrayIsNotFound(t *testing.T) {
	_, _, ok := Recommendations("<!--REC_START-->[]<!--REC_END-->")
	assert.False(t, ok)
}

func TestRecommendationsMissingTitleRejected(t *testing.T) {
	_, _, ok := Recommendations(`<!--REC_START-->[{"author":"no title"}]<!--REC_END-->`)
	assert.False(t, ok)
}

func TestArray(t *testing.T) {
	recs, ok := Array(`[{"title":"A"},{"title":"B"},{"title":"C"}]`)
	require.True(t, ok)
	assert.Len(t, recs, 3)

	recs, ok = Array("```json\n[{\"title\":\"Fenced\"}]\n```")
	require.True(t, ok)
	assert.Equal(t, "Fenced", recs[0].Title)

	recs, ok = Array(`Sure! Here you go: [{"title":"Wrapped"}] enjoy.`)
	require.True(t, ok)
	assert.Equal(t, "Wrapped", recs[0].Title)

	_, ok = Array("no structured data here")
	assert.False(t, ok)

	_, ok = Array("[]")
	assert.False(t, ok)
}

func TestArrayBracketInsideString(t *testing.T) {
	recs, ok := Array(`[{"title":"The [Annotated] Alice"}]`)
	require.True(t, ok)
	assert.Equal(t, "The [Annotated] Alice", recs[0].Title)
}

func TestObject(t *testing.T) {
	var v struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	}
	ok := Object(`Here is the book: {"title":"Dune","year":1965}. Anything else?`, &v)
	require.True(t, ok)
	assert.Equal(t, "Dune", v.Title)
	assert.Equal(t, 1965, v.Year)

	assert.False(t, Object("nothing structured", &v))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `[1,2]`, StripFences("```json\n[1,2]\n```"))
	assert.Equal(t, `[1,2]`, StripFences("```\n[1,2]\n```"))
	assert.Equal(t, `plain`, StripFences("plain"))
}
