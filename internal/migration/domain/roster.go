package domain

// RosterEntry is a freshly migrated user kept in memory for the linking
// stages that follow user provisioning.
type RosterEntry struct {
	UID              string
	LegacyID         string
	DisplayName      string
	Email            string
	Role             string
	StripeCustomerID string
}

// Roster indexes migrated users by legacy identifier, partitioned by
// role. Clients keep their provisioning order.
type Roster struct {
	clients              []RosterEntry
	contractorByLegacyID map[string]RosterEntry
}

func NewRoster() *Roster {
	return &Roster{contractorByLegacyID: make(map[string]RosterEntry)}
}

func (r *Roster) Add(entry RosterEntry) {
	switch entry.Role {
	case RoleClient:
		r.clients = append(r.clients, entry)
	case RoleContractor:
		r.contractorByLegacyID[entry.LegacyID] = entry
	}
}

// Clients returns client entries in the order they were added.
func (r *Roster) Clients() []RosterEntry {
	return r.clients
}

// ContractorByLegacyID resolves a contractor from a legacy employee id.
func (r *Roster) ContractorByLegacyID(legacyID string) (RosterEntry, bool) {
	entry, ok := r.contractorByLegacyID[legacyID]
	return entry, ok
}
