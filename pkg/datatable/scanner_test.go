package datatable

import (
	"strings"
	"testing"
)

func TestFindLongestSequence(t *testing.T) {
	root, speakers, basenames := writeCorpus(t)

	longest, err := FindLongestSequence(root, speakers, basenames)
	if err != nil {
		t.Fatal(err)
	}
	if longest != 8 {
		t.Fatalf("longest = %d, want 8", longest)
	}
}

func TestFindLongestSequenceMissingSpeaker(t *testing.T) {
	root, speakers, basenames := writeCorpus(t)

	_, err := FindLongestSequence(root, append(speakers, "ghost"), basenames)
	if err == nil {
		t.Fatal("expected error for missing speaker directory")
	}
	// The diagnostic must name the offending speaker and basename.
	if !strings.Contains(err.Error(), "ghost") || !strings.Contains(err.Error(), fixtureBasename) {
		t.Errorf("error does not identify the offender: %v", err)
	}
}
