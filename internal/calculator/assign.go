package calculator

import (
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNoFriends is returned when items are assigned to an empty friends list.
var ErrNoFriends = errors.New("must have at least one friend")

// Assign hands items out round-robin: item i goes to friends[i % len(friends)].
func Assign(items []models.Item, friends []string) ([]models.AssignedItem, error) {
	if len(friends) == 0 {
		return nil, ErrNoFriends
	}

	assigned := make([]models.AssignedItem, len(items))
	for i, item := range items {
		assigned[i] = models.AssignedItem{
			Name:       item.Name,
			Cost:       item.Cost,
			AssignedTo: friends[i%len(friends)],
		}
	}
	return assigned, nil
}
