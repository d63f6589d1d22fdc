package core

import "strings"

// Training status keywords. Matching is a case-insensitive substring test.
const (
	KeywordConducted = "conducted"
	KeywordAttended  = "attended"
)

// NearestFunc picks one trainer from a non-empty candidate pool gathered
// across all districts.
type NearestFunc func(candidates []ResourcePerson) ResourcePerson

// FirstCandidate is the fallback selection policy: the first candidate in
// feed order. No distance is computed.
func FirstCandidate(candidates []ResourcePerson) ResourcePerson {
	return candidates[0]
}

// Engine selects primary and secondary trainers for a request.
type Engine struct {
	Nearest NearestFunc
}

// DefaultEngine uses FirstCandidate for the fallback tier.
var DefaultEngine = Engine{Nearest: FirstCandidate}

// Assign runs DefaultEngine.
func Assign(rps []ResourcePerson, topic, district string) Assignment {
	return DefaultEngine.Assign(rps, topic, district)
}

// Assign fills the primary slot from trainers who conducted the topic and
// the secondary slot from trainers who attended it. The slots are chosen
// independently and may name the same person.
func (e Engine) Assign(rps []ResourcePerson, topic, district string) Assignment {
	return Assignment{
		Primary:   e.selectSlot(rps, topic, KeywordConducted, district),
		Secondary: e.selectSlot(rps, topic, KeywordAttended, district),
	}
}

// selectSlot prefers the first qualified trainer in district, then falls
// back to Nearest over qualified trainers anywhere.
func (e Engine) selectSlot(rps []ResourcePerson, topic, keyword, district string) SlotMatch {
	var candidates []ResourcePerson

	for _, rp := range rps {
		if !qualifies(rp, topic, keyword) {
			continue
		}
		if rp.District == district {
			return SlotMatch{Person: rp, Tier: TierSameDistrict}
		}
		candidates = append(candidates, rp)
	}

	if len(candidates) == 0 {
		return SlotMatch{Person: NotAvailable, Tier: TierNone}
	}

	nearest := e.Nearest
	if nearest == nil {
		nearest = FirstCandidate
	}
	return SlotMatch{Person: nearest(candidates), Tier: TierFallback}
}

func qualifies(rp ResourcePerson, topic, keyword string) bool {
	return rp.Topic == topic &&
		strings.Contains(strings.ToLower(rp.TrainingStatus), keyword)
}
