// Package selection tracks which friends are selected in the friends picker.
package selection

import "github.com/mmynk/billsplit/internal/models"

// List is an ordered set of friends keyed by username.
type List struct {
	friends []models.Friend
	index   map[string]int
}

// New builds a list from usernames, all unselected. Duplicate usernames keep
// their first position.
func New(usernames []string) *List {
	l := &List{}
	l.Replace(usernames)
	return l
}

// Replace swaps in a fresh list of usernames. Usernames already in the list keep
// their selection state; new ones start unselected.
func (l *List) Replace(usernames []string) {
	friends := make([]models.Friend, 0, len(usernames))
	index := make(map[string]int, len(usernames))
	for _, u := range usernames {
		if _, dup := index[u]; dup {
			continue
		}
		f := models.NewFriend(u)
		if i, ok := l.index[u]; ok {
			f.IsSelected = l.friends[i].IsSelected
		}
		index[u] = len(friends)
		friends = append(friends, f)
	}
	l.friends = friends
	l.index = index
}

// Toggle flips the selection of username and reports whether it was found.
func (l *List) Toggle(username string) bool {
	i, ok := l.index[username]
	if !ok {
		return false
	}
	l.friends[i].IsSelected = !l.friends[i].IsSelected
	return true
}

// Select sets the selection of every listed username.
func (l *List) Select(usernames []string) {
	for _, u := range usernames {
		if i, ok := l.index[u]; ok {
			l.friends[i].IsSelected = true
		}
	}
}

// IsSelected reports whether username is selected.
func (l *List) IsSelected(username string) bool {
	i, ok := l.index[username]
	return ok && l.friends[i].IsSelected
}

// Friends returns a copy of all entries in list order.
func (l *List) Friends() []models.Friend {
	return append([]models.Friend(nil), l.friends...)
}

// Selected returns the selected friends in list order.
func (l *List) Selected() []models.Friend {
	var out []models.Friend
	for _, f := range l.friends {
		if f.IsSelected {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.friends)
}
