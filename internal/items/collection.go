package items

// Equipment holds the items an adventurer has equipped, one per slot.
// A nil pointer means the slot is empty.
type Equipment struct {
	Weapon *Item `json:"weapon,omitempty"`
	Chest  *Item `json:"chest,omitempty"`
	Head   *Item `json:"head,omitempty"`
	Waist  *Item `json:"waist,omitempty"`
	Foot   *Item `json:"foot,omitempty"`
	Hand   *Item `json:"hand,omitempty"`
	Neck   *Item `json:"neck,omitempty"`
	Ring   *Item `json:"ring,omitempty"`
}

// Get returns the item in a slot, or nil when it is empty
func (e Equipment) Get(slot Slot) *Item {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotChest:
		return e.Chest
	case SlotHead:
		return e.Head
	case SlotWaist:
		return e.Waist
	case SlotFoot:
		return e.Foot
	case SlotHand:
		return e.Hand
	case SlotNeck:
		return e.Neck
	case SlotRing:
		return e.Ring
	default:
		return nil
	}
}

// Set places an item in a slot, replacing what was there
func (e *Equipment) Set(slot Slot, item *Item) {
	switch slot {
	case SlotWeapon:
		e.Weapon = item
	case SlotChest:
		e.Chest = item
	case SlotHead:
		e.Head = item
	case SlotWaist:
		e.Waist = item
	case SlotFoot:
		e.Foot = item
	case SlotHand:
		e.Hand = item
	case SlotNeck:
		e.Neck = item
	case SlotRing:
		e.Ring = item
	}
}

// EquippedArmor returns the armor slots that currently hold an item, in
// ArmorSlots order
func (e Equipment) EquippedArmor() []Slot {
	var equipped []Slot
	for _, slot := range ArmorSlots {
		if e.Get(slot) != nil {
			equipped = append(equipped, slot)
		}
	}
	return equipped
}

// Count returns the number of occupied slots
func (e Equipment) Count() int {
	n := 0
	for slot := SlotWeapon; slot <= SlotRing; slot++ {
		if e.Get(slot) != nil {
			n++
		}
	}
	return n
}
