package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSCOTUS_JSON(t *testing.T) {
	data := []byte(`{
		"caseName": "Marbury v. Madison",
		"opinion_text": "<p>It is emphatically the province of the judicial department.</p>",
		"cite": "5 U.S. 137",
		"decision_date": "1803-02-24"
	}`)

	a := &SCOTUSAdapter{}
	rec, err := a.Parse("marbury.json", data)
	require.NoError(t, err)

	assert.Equal(t, "Marbury v. Madison", rec.CaseName)
	assert.Equal(t, "It is emphatically the province of the judicial department.", rec.Summary)
	assert.Equal(t, "scotus", rec.Source)
	assert.Equal(t, "5 U.S. 137", rec.Citation)
	assert.Equal(t, "1803-02-24", rec.Date)
}

func TestSCOTUS_JSON_PriorityOrder(t *testing.T) {
	data := []byte(`{
		"case_name": "Explicit Name",
		"title": "Lower Priority Title",
		"summary": "explicit summary",
		"content": "lower priority content"
	}`)

	rec, err := (&SCOTUSAdapter{}).Parse("x.json", data)
	require.NoError(t, err)
	assert.Equal(t, "Explicit Name", rec.CaseName)
	assert.Equal(t, "explicit summary", rec.Summary)
}

func TestSCOTUS_JSON_FilenameFallback(t *testing.T) {
	data := []byte(`{"plain_text": "opinion body"}`)

	rec, err := (&SCOTUSAdapter{}).Parse("Plessy_v_Ferguson.json", data)
	require.NoError(t, err)
	assert.Equal(t, "Plessy v Ferguson", rec.CaseName)
	assert.Equal(t, "opinion body", rec.Summary)
}

func TestSCOTUS_JSON_NoSummaryRejected(t *testing.T) {
	_, err := (&SCOTUSAdapter{}).Parse("empty.json", []byte(`{"case_name": "Empty Case"}`))
	require.Error(t, err)
}

func TestSCOTUS_JSON_Malformed(t *testing.T) {
	_, err := (&SCOTUSAdapter{}).Parse("bad.json", []byte(`{`))
	require.Error(t, err)
}

func TestSCOTUS_XML(t *testing.T) {
	data := []byte(`<case>
		<title>Lochner v. New York</title>
		<opinion>Liberty of contract.</opinion>
		<citation>198 U.S. 45</citation>
		<date>1905/04/17</date>
	</case>`)

	rec, err := (&SCOTUSAdapter{}).Parse("lochner.xml", data)
	require.NoError(t, err)
	assert.Equal(t, "Lochner v. New York", rec.CaseName)
	assert.Equal(t, "Liberty of contract.", rec.Summary)
	assert.Equal(t, "198 U.S. 45", rec.Citation)
	assert.Equal(t, "1905-04-17", rec.Date)
}

func TestSCOTUS_TXT(t *testing.T) {
	rec, err := (&SCOTUSAdapter{}).Parse("Korematsu_v_United_States.txt", []byte("Full opinion text here."))
	require.NoError(t, err)
	assert.Equal(t, "Korematsu v United States", rec.CaseName)
	assert.Equal(t, "Full opinion text here.", rec.Summary)
	assert.Equal(t, "scotus", rec.Source)
}

func TestSCOTUS_UnsupportedExtension(t *testing.T) {
	_, err := (&SCOTUSAdapter{}).Parse("doc.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
