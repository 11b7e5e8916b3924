package newsalerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Nation</title>
    <item>
      <title>Floods displace hundreds in Kelantan</title>
      <description><![CDATA[<p>Rising water levels have forced <b>evacuations</b> in Kota Bharu.</p>]]></description>
    </item>
    <item>
      <title>Haze advisory issued for Klang Valley</title>
      <description>API readings above 150 recorded in Shah Alam &amp; Klang.</description>
    </item>
    <item><title>One</title><description>a</description></item>
    <item><title>Two</title><description>b</description></item>
    <item><title>Three</title><description>c</description></item>
    <item><title>Four</title><description>d</description></item>
  </channel>
</rss>`

func TestParseFeed(t *testing.T) {
	articles, err := ParseFeed([]byte(sampleFeed))
	require.NoError(t, err)

	// capped at five items per feed
	require.Len(t, articles, 5)
	assert.Equal(t, "Floods displace hundreds in Kelantan", articles[0].Title)
	assert.Equal(t, "Rising water levels have forced evacuations in Kota Bharu.", articles[0].Summary)
	assert.Equal(t, "API readings above 150 recorded in Shah Alam & Klang.", articles[1].Summary)
}

func TestParseFeedRejectsGarbage(t *testing.T) {
	_, err := ParseFeed([]byte("not xml at all"))
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"tags", "<p>hello <b>world</b></p>", "hello world"},
		{"entities", "Shah Alam &amp; Klang", "Shah Alam & Klang"},
		{"whitespace", "  a\n\n b  ", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.in))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[{"title":"x"}]`, extractJSONArray(`Here you go: [{"title":"x"}] done`))
	assert.Equal(t, "", extractJSONArray("no array here"))
}

type fakeAlertStore struct {
	deleted int
	added   []*models.Alert
	addErr  error
}

func (f *fakeAlertStore) DeleteGeneratedAlerts(_ context.Context) (int, error) {
	return f.deleted, nil
}

func (f *fakeAlertStore) AddAlert(_ context.Context, alert *models.Alert) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, alert)
	return nil
}

type fakeTextGen struct {
	text string
	err  error
}

func (f *fakeTextGen) GenerateText(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func TestRunStoresGeneratedAlerts(t *testing.T) {
	store := &fakeAlertStore{deleted: 3}
	gen := &fakeTextGen{text: "```json\n" + `[
		{"title":"Flood warning in Kelantan","body":"Evacuations underway.","type":"flood","region":"Kelantan","severity":"high"},
		{"title":"Blood donation drive in KL","body":"Donors needed at HKL.","type":"community","region":"Kuala Lumpur","severity":"low"},
		{"title":"","body":"missing title dropped","type":"general","region":"Johor","severity":"low"}
	]` + "\n```"}
	svc := NewService(store, gen, nil, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.AlertsCreated)

	require.Len(t, store.added, 2)
	assert.Equal(t, "flood", store.added[0].Type)
	assert.Equal(t, "ai", store.added[0].Source)
	assert.False(t, store.added[0].ExpiresAt.IsZero())
	// unknown types collapse to general
	assert.Equal(t, "general", store.added[1].Type)
}

func TestRunModelFailure(t *testing.T) {
	store := &fakeAlertStore{}
	svc := NewService(store, &fakeTextGen{err: assert.AnError}, nil, nil)

	result, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.False(t, result.OK)
	assert.Empty(t, store.added)
}
