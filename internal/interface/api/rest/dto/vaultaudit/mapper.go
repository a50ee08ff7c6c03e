package vaultaudit

import (
	"vault-api/internal/domain/vaultaudit"
)

func ToResponseEntry(eDomain vaultaudit.Entry) Entry {
	var e = Entry{
		ActorID:    eDomain.ActorID,
		ActorRole:  eDomain.ActorRole,
		Action:     eDomain.Action,
		TargetType: eDomain.TargetType,
		TargetID:   eDomain.TargetID,
		Status:     eDomain.Status,
		Detail:     eDomain.Detail,
		CreatedAt:  eDomain.CreatedAt,
	}

	return e
}

func ToResponseEntries(esDomain vaultaudit.Entries) Entries {
	es := make(Entries, len(esDomain))
	for idx, e := range esDomain {
		es[idx] = ToResponseEntry(*e)
	}

	return es
}
