package contentfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCleanText(t *testing.T) {
	f := New()
	assert.False(t, f.Restricted("This course was great"))
	assert.False(t, f.Restricted("Lots of reading but the probability tutorials helped"))
	assert.False(t, f.Restricted("I would miss the class on Mondays"))
}

func TestFilterDenylistIsCaseInsensitive(t *testing.T) {
	f := New()
	for _, text := range []string{
		"honestly SHIT subject",
		"the Worst Lecturer ever",
		"complete waste\n  of   time",
		"kelas ni bodoh",
	} {
		assert.True(t, f.Restricted(text), text)
	}
}

func TestFilterLecturerNames(t *testing.T) {
	f := New()
	for _, text := range []string{
		"Dr Smith was late every week",
		"prof. Aminah explains well",
		"Professor Tan is strict",
		"Puan Siti gives quizzes",
	} {
		res := f.Check(text)
		assert.True(t, res.Restricted, text)
		assert.Contains(t, res.Matches, LecturerNameMatch, text)
	}

	assert.False(t, f.Restricted("the dr said nothing"))
	assert.False(t, f.Restricted("address the issue"))
}

func TestFilterLecturerNamesInCapitals(t *testing.T) {
	f := New()
	for _, text := range []string{
		"Dr SMITH never showed up",
		"PROF LIM marks harshly",
		"Dr O'Brien was helpful",
		"Mr Lee was always late",
		"Ms. Aida replied quickly",
		"En Rahman takes attendance",
	} {
		assert.True(t, f.Restricted(text), text)
	}
}

func TestFilterCourtesyWordsAreNotTitles(t *testing.T) {
	f := New()
	for _, text := range []string{
		"I will miss Friday classes",
		"Notes were shared on Ms Teams",
		"Don't Miss March deadlines for the project",
		"en route to the lab every week",
		"mr bean memes in every slide",
		"Submissions go through Ms Forms",
	} {
		assert.False(t, f.Restricted(text), text)
	}
}

func TestFilterExtraTerms(t *testing.T) {
	f := New("  Boring  Class ", "", "shit")

	res := f.Check("such a boring class")
	assert.True(t, res.Restricted)
	assert.Equal(t, []string{"boring class"}, res.Matches)
	assert.Len(t, f.terms, len(defaultTerms)+1)
}
