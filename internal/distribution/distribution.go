// Package distribution computes how the 30 juz of a hatm are divided
// among reader slots. The same arithmetic backs the server-side
// assignment and the client-side live preview on the creation form, so
// the two can never disagree.
package distribution

import (
	"fmt"
	"math/rand/v2"

	"github.com/hatmapp/hatm/internal/models"
)

// Plan returns the number of juz each of the participants slots
// receives. With base = 30/participants and remainder = 30%participants,
// the first remainder slots get base+1 and the rest get base, so slot
// counts differ by at most one and always sum to 30.
func Plan(participants int) ([]int, error) {
	if participants < 1 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if participants > models.TotalJuz {
		return nil, fmt.Errorf("cannot have more than %d participants", models.TotalJuz)
	}

	base := models.TotalJuz / participants
	remainder := models.TotalJuz % participants

	counts := make([]int, participants)
	for i := range counts {
		counts[i] = base
		if i < remainder {
			counts[i]++
		}
	}
	return counts, nil
}

// SlotCount returns how many juz the slot at the given index receives
// under a plan for participants slots. Used when a late joiner claims
// the next free slot.
func SlotCount(participants, index int) int {
	base := models.TotalJuz / participants
	if index < models.TotalJuz%participants {
		return base + 1
	}
	return base
}

// Preview describes a plan in the two numbers the creation form shows:
// how many slots read an extra juz and what the base share is.
type Preview struct {
	Participants int
	Base         int
	WithExtra    int // slots reading Base+1 juz
}

// Describe summarizes the plan for participants slots.
func Describe(participants int) (Preview, error) {
	if _, err := Plan(participants); err != nil {
		return Preview{}, err
	}
	return Preview{
		Participants: participants,
		Base:         models.TotalJuz / participants,
		WithExtra:    models.TotalJuz % participants,
	}, nil
}

// Shuffled returns the juz numbers 1..30 in random order. Shuffling
// before slot assignment keeps any one reader from always getting the
// opening portions.
func Shuffled() []int {
	numbers := make([]int, models.TotalJuz)
	for i := range numbers {
		numbers[i] = i + 1
	}
	rand.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})
	return numbers
}

// Split deals the given juz numbers out to slots according to counts.
// len(numbers) must equal the sum of counts.
func Split(counts []int, numbers []int) ([][]int, error) {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != len(numbers) {
		return nil, fmt.Errorf("plan covers %d juz, got %d numbers", total, len(numbers))
	}

	slots := make([][]int, len(counts))
	next := 0
	for i, c := range counts {
		slots[i] = numbers[next : next+c]
		next += c
	}
	return slots, nil
}

// Distribute produces a full shuffled distribution for participants
// slots: every juz number 1..30 appears in exactly one slot.
func Distribute(participants int) ([][]int, error) {
	counts, err := Plan(participants)
	if err != nil {
		return nil, err
	}
	return Split(counts, Shuffled())
}
