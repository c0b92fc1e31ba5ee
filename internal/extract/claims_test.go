package extract

import (
	"strings"
	"testing"
)

func TestClaimExtractor_BasicExtraction(t *testing.T) {
	extractor := NewClaimExtractor()

	html := `
	<html>
	<body>
		<p>A new study shows that the vaccine changes human DNA permanently.</p>
		<p>According to insiders, the company admitted the data was fabricated.</p>
		<p>This is just a regular sentence without anything checkable in it.</p>
	</body>
	</html>
	`

	claims, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) < 2 {
		t.Fatalf("Expected at least 2 claims, got %d", len(claims))
	}

	foundStudy := false
	foundAccording := false
	for _, claim := range claims {
		lower := strings.ToLower(claim.Text)
		if strings.Contains(lower, "study shows") {
			foundStudy = true
			if !strings.Contains(claim.Heuristic, "study shows") {
				t.Errorf("Expected heuristic to mention 'study shows', got %q", claim.Heuristic)
			}
		}
		if strings.Contains(lower, "according to") {
			foundAccording = true
		}
	}
	if !foundStudy {
		t.Error("Expected to find the 'study shows' claim")
	}
	if !foundAccording {
		t.Error("Expected to find the 'according to' claim")
	}
}

func TestClaimExtractor_SkipsScriptsAndStyles(t *testing.T) {
	extractor := NewClaimExtractor()

	html := `
	<html>
	<head><style>body { color: red; } /* scientists confirmed this style */</style></head>
	<body>
		<script>var x = "scientists confirmed the script should never leak into claims.";</script>
		<p>Leaked documents revealed the agency monitored millions of accounts.</p>
	</body>
	</html>
	`

	claims, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, claim := range claims {
		if strings.Contains(claim.Text, "script") || strings.Contains(claim.Text, "style") {
			t.Errorf("Script/style content leaked into claim: %q", claim.Text)
		}
	}
	if len(claims) != 1 {
		t.Errorf("Expected exactly 1 claim from visible text, got %d", len(claims))
	}
}

func TestClaimExtractor_Dedupes(t *testing.T) {
	extractor := NewClaimExtractor()

	html := `
	<html><body>
		<p>Scientists confirmed the lake has been shrinking since 1990. More text follows here.</p>
		<p>Scientists confirmed the lake has been shrinking since 1990. More text follows here.</p>
	</body></html>
	`

	claims, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("Expected duplicate sentences to collapse to 1 claim, got %d", len(claims))
	}
}

func TestSplitSentences_LengthBounds(t *testing.T) {
	short := "Too short. "
	long := strings.Repeat("word ", 120) + ". "
	ok := "This sentence is comfortably inside the accepted length range for claims. "

	sentences := splitSentences(short + long + ok)
	if len(sentences) != 1 {
		t.Fatalf("Expected 1 surviving sentence, got %d: %v", len(sentences), sentences)
	}
	if !strings.HasPrefix(sentences[0], "This sentence") {
		t.Errorf("Unexpected sentence kept: %q", sentences[0])
	}
}
