package models

// Friend represents a person the bill can be split with.
// Friends come from the payments provider as bare usernames and are wrapped locally.
type Friend struct {
	// Username is the payments-provider username. It is the friend's stable key.
	Username string `json:"username"`

	// Items are the items this friend has been assigned.
	Items []Item `json:"items"`

	// Amount is what this friend owes, including their share of tax.
	Amount float64 `json:"amount"`

	// IsSelected reports whether the friend was picked in the friends list.
	IsSelected bool `json:"isSelected"`
}

// NewFriend wraps a username in an unselected Friend with no items.
func NewFriend(username string) Friend {
	return Friend{
		Username: username,
		Items:    []Item{},
	}
}
