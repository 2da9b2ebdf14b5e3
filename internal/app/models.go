// File: internal/app/models.go
package app

import (
	"legacyvault/internal/asset"
	"legacyvault/internal/auth"
	"legacyvault/internal/profile"
)

// Models lists every gorm model the service stores, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&profile.Profile{},
		&asset.Asset{},
		&asset.Beneficiary{},
		&auth.LocalIdentity{},
	}
}
