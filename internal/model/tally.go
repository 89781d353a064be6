package model

type Tally struct {
	A int64 `json:"A" firestore:"A"`
	B int64 `json:"B" firestore:"B"`
}

func TallyOf(votes []Vote) Tally {
	var t Tally
	for _, v := range votes {
		t = t.Add(v.Choice)
	}
	return t
}

// Add returns the tally with one more vote for c. Unknown choices are ignored.
func (t Tally) Add(c Choice) Tally {
	switch c {
	case ChoiceA:
		t.A++
	case ChoiceB:
		t.B++
	}
	return t
}

func (t Tally) Total() int64 {
	return t.A + t.B
}

// Share is the percentage of votes for c, 0 when nobody voted yet.
func (t Tally) Share(c Choice) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	n := t.A
	if c == ChoiceB {
		n = t.B
	}
	return float64(n) / float64(total) * 100
}
