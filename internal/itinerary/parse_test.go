package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgcamps/trip-planner/internal/itinerary"
)

const fencedReply = "Here is your plan.\n\n" +
	"## Day 1\nArrive in Shimla.\n\n" +
	"```json\n" +
	`{"overview":"x","days":[{"day":1,"title":"Day 1","highlights":["A","B"]}]}` +
	"\n```\n"

func TestParse_JSONTakesPrecedenceOverDayHeadings(t *testing.T) {
	res := itinerary.Parse(fencedReply)

	require.NotNil(t, res.Structured)
	assert.Nil(t, res.Sections, "day split must not run once JSON succeeds")
	assert.Empty(t, res.Raw)

	assert.Equal(t, "x", res.Structured.Overview)
	require.Len(t, res.Structured.Days, 1)
	assert.Equal(t, 1, res.Structured.Days[0].Number)
	assert.Equal(t, []string{"A", "B"}, res.Structured.Days[0].Highlights)
}

func TestParse_BareJSONWithoutFence(t *testing.T) {
	res := itinerary.Parse(`{"overview":"quiet weekend","days":[{"day":1,"title":"Day 1","highlights":["walk"]}]}`)

	require.NotNil(t, res.Structured)
	assert.Equal(t, "quiet weekend", res.Structured.Overview)
}

func TestParse_SanitizesTrailingCommas(t *testing.T) {
	res := itinerary.Parse("```json\n" +
		`{"overview":"x","days":[{"day":1,"title":"Day 1","highlights":["A",]},]}` +
		"\n```")

	require.NotNil(t, res.Structured)
	require.Len(t, res.Structured.Days, 1)
	assert.Equal(t, []string{"A"}, res.Structured.Days[0].Highlights)
}

func TestParse_InvalidJSONFallsBackToDaySplit(t *testing.T) {
	res := itinerary.Parse("```json\n{\"overview\": broken}\n```\n" +
		"Day 1: Arrive\nCheck in and rest.\nDay 2: Explore\nOld town walk.")

	assert.Nil(t, res.Structured)
	require.Len(t, res.Sections, 3)
	assert.Equal(t, "Overview", res.Sections[0].Title, "broken fence text lands in the overview section")
	assert.Equal(t, "Day 1: Arrive", res.Sections[1].Title)
	assert.Equal(t, "Check in and rest.", res.Sections[1].Body)
	assert.Equal(t, "Day 2: Explore", res.Sections[2].Title)
}

func TestParse_JSONWithoutItineraryShapeIsDiscarded(t *testing.T) {
	res := itinerary.Parse(`{"note":"not an itinerary"}`)

	assert.Nil(t, res.Structured)
	assert.Equal(t, `{"note":"not an itinerary"}`, res.Raw)
}

func TestSplitDays_ThreeSections(t *testing.T) {
	text := "# Day 1 — Arrival\nDrive up, check in.\n\n" +
		"** day 2: Lakes**\nBoat ride and market.\n\n" +
		"DAY 3\nDeparture after breakfast."

	sections, found := itinerary.SplitDays(text)
	require.True(t, found)
	require.Len(t, sections, 3)

	assert.Equal(t, "Day 1 — Arrival", sections[0].Title)
	assert.Equal(t, "Drive up, check in.", sections[0].Body)
	assert.Equal(t, "day 2: Lakes**", sections[1].Title)
	assert.Equal(t, "Boat ride and market.", sections[1].Body)
	assert.Equal(t, "DAY 3", sections[2].Title)
	assert.Equal(t, "Departure after breakfast.", sections[2].Body)
}

func TestSplitDays_LeadingTextBecomesOverview(t *testing.T) {
	text := "A relaxed plan for your trip.\nDay 1: Arrive\nSettle in."

	sections, found := itinerary.SplitDays(text)
	require.True(t, found)
	require.Len(t, sections, 2)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, "A relaxed plan for your trip.", sections[0].Body)
}

func TestParse_HeadingOnlyLines(t *testing.T) {
	res := itinerary.Parse("Day 1: Arrive...\nDay 2: Explore...\nDay 3: Depart...")

	require.Len(t, res.Sections, 3)
	assert.Equal(t, "Day 1: Arrive...", res.Sections[0].Title)
	assert.Equal(t, "Day 2: Explore...", res.Sections[1].Title)
	assert.Equal(t, "Day 3: Depart...", res.Sections[2].Title)
}

func TestParse_TotalFallbackReturnsTextUnchanged(t *testing.T) {
	text := "The best months are October and November.\nCarry warm clothing."

	res := itinerary.Parse(text)

	assert.Nil(t, res.Structured)
	assert.Nil(t, res.Sections)
	assert.Equal(t, text, res.Raw)
}

func TestParse_EmptyInput(t *testing.T) {
	res := itinerary.Parse("")
	assert.Equal(t, "", res.Raw)
	assert.Nil(t, res.Structured)
	assert.Nil(t, res.Sections)
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		fencedReply,
		"Day 1: Arrive\nRest.\nDay 2: Leave\nPack up.",
		"no structure at all",
	}
	for _, in := range inputs {
		first := itinerary.Parse(in)
		second := itinerary.Parse(in)
		assert.Equal(t, first, second)
	}
}

func TestSplitDays_CRLFInput(t *testing.T) {
	sections, found := itinerary.SplitDays("Day 1: Arrive\r\nRest well.\r\nDay 2: Explore\r\nMarkets.")
	require.True(t, found)
	require.Len(t, sections, 2)
	assert.Equal(t, "Rest well.", sections[0].Body)
}

func TestSplitDays_NoHeadings(t *testing.T) {
	sections, found := itinerary.SplitDays("just prose, no daily breakdown")
	assert.False(t, found)
	assert.Nil(t, sections)
}
