package items

// Slot represents where an item is equipped
type Slot int

const (
	SlotNone Slot = iota
	SlotWeapon
	SlotChest
	SlotHead
	SlotWaist
	SlotFoot
	SlotHand
	SlotNeck
	SlotRing
)

// ArmorSlots are the slots a beast or obstacle can strike, in strike order.
var ArmorSlots = []Slot{SlotChest, SlotHead, SlotWaist, SlotFoot, SlotHand}

// String returns the string representation of a Slot
func (s Slot) String() string {
	switch s {
	case SlotWeapon:
		return "weapon"
	case SlotChest:
		return "chest"
	case SlotHead:
		return "head"
	case SlotWaist:
		return "waist"
	case SlotFoot:
		return "foot"
	case SlotHand:
		return "hand"
	case SlotNeck:
		return "neck"
	case SlotRing:
		return "ring"
	default:
		return "none"
	}
}

// IsArmor returns true for the five strikeable armor slots
func (s Slot) IsArmor() bool {
	switch s {
	case SlotChest, SlotHead, SlotWaist, SlotFoot, SlotHand:
		return true
	}
	return false
}

// StringToSlot converts a string to a Slot
func StringToSlot(slot string) Slot {
	switch slot {
	case "weapon":
		return SlotWeapon
	case "chest":
		return SlotChest
	case "head":
		return SlotHead
	case "waist":
		return SlotWaist
	case "foot":
		return SlotFoot
	case "hand":
		return SlotHand
	case "neck":
		return SlotNeck
	case "ring":
		return SlotRing
	default:
		return SlotNone
	}
}

// Type is the elemental category of an item. Weapons carry an attack type
// and armor an armor type.
type Type int

const (
	TypeNone Type = iota
	Magic
	Blade
	Bludgeon
	Cloth
	Hide
	Metal
	Necklace
	Ring
)

// String returns the string representation of a Type
func (t Type) String() string {
	switch t {
	case Magic:
		return "magic"
	case Blade:
		return "blade"
	case Bludgeon:
		return "bludgeon"
	case Cloth:
		return "cloth"
	case Hide:
		return "hide"
	case Metal:
		return "metal"
	case Necklace:
		return "necklace"
	case Ring:
		return "ring"
	default:
		return "none"
	}
}

// IsAttack returns true for weapon types
func (t Type) IsAttack() bool {
	return t == Magic || t == Blade || t == Bludgeon
}

// IsArmor returns true for armor types
func (t Type) IsArmor() bool {
	return t == Cloth || t == Hide || t == Metal
}

// StringToType converts a string to a Type
func StringToType(typ string) Type {
	switch typ {
	case "magic":
		return Magic
	case "blade":
		return Blade
	case "bludgeon":
		return Bludgeon
	case "cloth":
		return Cloth
	case "hide":
		return Hide
	case "metal":
		return Metal
	case "necklace":
		return Necklace
	case "ring":
		return Ring
	default:
		return TypeNone
	}
}
