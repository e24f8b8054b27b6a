package models

// WalletAddress is a user's saved payout destination for one asset.
// Withdrawal requests resolve their target address from these rows.
type WalletAddress struct {
	Base
	UserID  string `gorm:"type:uuid;not null;index:idx_wallet_user_asset" json:"user_id"`
	Asset   string `gorm:"not null;index:idx_wallet_user_asset" json:"asset"`
	Network string `json:"network,omitempty"`
	Address string `gorm:"not null" json:"address"`
	Label   string `json:"label,omitempty"`
}

// supportedAssets lists the deposit/withdrawal rails the platform accepts.
var supportedAssets = map[string]bool{
	"BTC":  true,
	"ETH":  true,
	"USDT": true,
	"USDC": true,
}

// AssetSupported reports whether the given asset code is accepted for
// deposits and withdrawals.
func AssetSupported(asset string) bool {
	return supportedAssets[asset]
}
