// Package transcript renders diarized utterances as a labeled, human
// readable transcript.
package transcript

import (
	"strings"

	"voicedocs/internal/stt"
)

// Header is the fixed first line of every formatted transcript.
const Header = "TRANSCRIPTION OF AUDIO"

// Format renders utterances as blank-line separated "Speaker X: text"
// lines under the fixed header. Speaker indices are mapped to letters in
// order of first appearance: the first distinct speaker is always "A", the
// next "B", and a recurring index always keeps its letter. The output is a
// pure function of the utterance order.
func Format(utterances []stt.Utterance) string {
	labels := make(map[int]string)
	lines := make([]string, 0, len(utterances)+1)
	lines = append(lines, Header)

	for _, u := range utterances {
		label, ok := labels[u.Speaker]
		if !ok {
			label = SpeakerLabel(len(labels))
			labels[u.Speaker] = label
		}
		lines = append(lines, "Speaker "+label+": "+u.Text)
	}

	return strings.Join(lines, "\n\n")
}

// SpeakerLabel converts a zero-based appearance ordinal to a letter label:
// A..Z, then AA, AB, ... (bijective base-26), so the mapping stays
// injective past 26 speakers.
func SpeakerLabel(n int) string {
	var b []byte
	for {
		b = append([]byte{byte('A' + n%26)}, b...)
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return string(b)
}
