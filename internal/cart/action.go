package cart

import "fmt"

// ActionType names a cart transition.
type ActionType string

const (
	ActionAdd         ActionType = "add"
	ActionRemove      ActionType = "remove"
	ActionSetQuantity ActionType = "set_quantity"
	ActionClear       ActionType = "clear"
)

// Action is a serialisable cart transition. Item is read by ActionAdd, and by
// ActionSetQuantity when set, to carry the current stock of the variant.
type Action struct {
	Type     ActionType
	Item     Item
	ItemID   string
	Variant  string
	Quantity int
}

// Apply is the cart reducer: state + action -> new state.
func Apply(s State, a Action) (State, error) {
	switch a.Type {
	case ActionAdd:
		return s.Add(a.Item, a.Quantity)
	case ActionRemove:
		return s.Remove(a.ItemID, a.Variant), nil
	case ActionSetQuantity:
		current := s
		if a.Item.ID != "" {
			current = s.Restock(a.Item)
		}
		next, err := current.SetQuantity(a.ItemID, a.Variant, a.Quantity)
		if err != nil {
			return s, err
		}
		return next, nil
	case ActionClear:
		return s.Clear(), nil
	default:
		return s, fmt.Errorf("unknown cart action %q", a.Type)
	}
}
