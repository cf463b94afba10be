package meetup

import (
	"sort"
	"time"
)

// Subscription is one user's signup. Waiting flips to false exactly once,
// when the user is promoted; it never flips back.
type Subscription struct {
	UserID           string    `json:"user_id"`
	RegistrationTime time.Time `json:"registration_time"`
	Waiting          bool      `json:"waiting"`
}

func (s Subscription) confirm() Subscription {
	s.Waiting = false
	return s
}

// Subscriptions is an insertion-ordered registry of signups, at most one per
// user. All operations are copy-on-write so states sharing a registry never
// observe each other's changes. Callers must reject duplicate user ids
// before Add; the registry does not check.
type Subscriptions struct {
	List []Subscription `json:"list"`
}

func (s Subscriptions) Add(sub Subscription) Subscriptions {
	list := make([]Subscription, 0, len(s.List)+1)
	list = append(list, s.List...)
	list = append(list, sub)
	return Subscriptions{List: list}
}

// RemoveBy drops the subscription for userID, returning the new registry and
// the removed entry, or nil when the user has no subscription.
func (s Subscriptions) RemoveBy(userID string) (Subscriptions, *Subscription) {
	for i, sub := range s.List {
		if sub.UserID == userID {
			list := make([]Subscription, 0, len(s.List)-1)
			list = append(list, s.List[:i]...)
			list = append(list, s.List[i+1:]...)
			removed := sub
			return Subscriptions{List: list}, &removed
		}
	}
	return s, nil
}

// Confirm moves the user out of the waiting list. Unknown ids are a no-op,
// which keeps replaying promotion events total.
func (s Subscriptions) Confirm(userID string) Subscriptions {
	return s.ConfirmMany([]string{userID})
}

// ConfirmMany confirms each listed user still present in the registry.
func (s Subscriptions) ConfirmMany(userIDs []string) Subscriptions {
	confirmed := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		confirmed[id] = true
	}
	list := make([]Subscription, len(s.List))
	for i, sub := range s.List {
		if confirmed[sub.UserID] {
			sub = sub.confirm()
		}
		list[i] = sub
	}
	return Subscriptions{List: list}
}

func (s Subscriptions) FindBy(userID string) *Subscription {
	for _, sub := range s.List {
		if sub.UserID == userID {
			found := sub
			return &found
		}
	}
	return nil
}

// Participants returns confirmed subscriptions ordered by registration time.
// Equal times keep insertion order, so the ordering is deterministic.
func (s Subscriptions) Participants() []Subscription {
	return s.sortedWhere(false)
}

// WaitingList returns waiting subscriptions ordered by registration time.
func (s Subscriptions) WaitingList() []Subscription {
	return s.sortedWhere(true)
}

func (s Subscriptions) sortedWhere(waiting bool) []Subscription {
	var out []Subscription
	for _, sub := range s.List {
		if sub.Waiting == waiting {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationTime.Before(out[j].RegistrationTime)
	})
	return out
}

// FirstInWaitingList returns the earliest waiting subscription, or nil.
func (s Subscriptions) FirstInWaitingList() *Subscription {
	waiting := s.WaitingList()
	if len(waiting) == 0 {
		return nil
	}
	first := waiting[0]
	return &first
}

// FirstNInWaitingList returns up to n earliest waiting subscriptions.
func (s Subscriptions) FirstNInWaitingList(n int) []Subscription {
	if n <= 0 {
		return nil
	}
	waiting := s.WaitingList()
	if n > len(waiting) {
		n = len(waiting)
	}
	return waiting[:n]
}
