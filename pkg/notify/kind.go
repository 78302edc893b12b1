package notify

// Kind is the type of change an event describes.
type Kind uint8

const (
	KindAdded Kind = iota + 1
	KindUpdated
	KindDeleted
)

// Action returns the tag appended to a group to form the wire method name.
func (k Kind) Action() string {
	switch k {
	case KindAdded:
		return "add"
	case KindUpdated:
		return "update"
	case KindDeleted:
		return "delete"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindUpdated:
		return "updated"
	case KindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

func (k Kind) valid() bool {
	return k >= KindAdded && k <= KindDeleted
}

// Actions selects which kinds a Processor dispatches.
type Actions uint8

const (
	ActionAdd    Actions = 1 << iota // 1
	ActionDelete                     // 2
	ActionUpdate                     // 4

	ActionNone Actions = 0
	ActionAll          = ActionAdd | ActionDelete | ActionUpdate
)

// Has reports whether every flag in other is set.
func (a Actions) Has(other Actions) bool {
	return a&other == other
}

func (k Kind) flag() Actions {
	switch k {
	case KindAdded:
		return ActionAdd
	case KindUpdated:
		return ActionUpdate
	case KindDeleted:
		return ActionDelete
	default:
		return ActionNone
	}
}
