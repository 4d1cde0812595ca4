package handler

// DebitRequest represents a provider bet settlement request
type DebitRequest struct {
	SessionRef string `json:"session_ref" binding:"required"`
	ExternalID string `json:"external_id" binding:"required"`
	RoundRef   string `json:"round_ref" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

// CreditRequest represents a provider win settlement request
type CreditRequest struct {
	SessionRef        string `json:"session_ref" binding:"required"`
	ExternalID        string `json:"external_id" binding:"required"`
	RoundRef          string `json:"round_ref" binding:"required"`
	Amount            int64  `json:"amount" binding:"required,gt=0"`
	RelatedExternalID string `json:"related_external_id,omitempty"`
}

// RollbackRequest represents a provider bet reversal request
type RollbackRequest struct {
	SessionRef         string `json:"session_ref" binding:"required"`
	ExternalID         string `json:"external_id" binding:"required"`
	RoundRef           string `json:"round_ref" binding:"required"`
	OriginalExternalID string `json:"original_external_id" binding:"required"`
}

// BalanceRequest represents a provider balance inquiry
type BalanceRequest struct {
	SessionRef string `json:"session_ref" binding:"required"`
}

// CreateWalletRequest represents a request to provision a player wallet
type CreateWalletRequest struct {
	PlayerRef      string `json:"player_ref" binding:"required"`
	Currency       string `json:"currency" binding:"required,len=3"`
	OpeningBalance int64  `json:"opening_balance" binding:"min=0"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID        string `json:"id"`
	PlayerRef string `json:"player_ref"`
	Currency  string `json:"currency"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateSessionRequest represents a request to register a game session
type CreateSessionRequest struct {
	Ref      string `json:"ref" binding:"required"`
	WalletID string `json:"wallet_id" binding:"required,uuid"`
	GameCode string `json:"game_code" binding:"required"`
	MinBet   int64  `json:"min_bet" binding:"min=0"`
	MaxBet   int64  `json:"max_bet" binding:"min=0"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	Ref       string `json:"ref"`
	WalletID  string `json:"wallet_id"`
	GameCode  string `json:"game_code"`
	MinBet    int64  `json:"min_bet"`
	MaxBet    int64  `json:"max_bet"`
	CreatedAt string `json:"created_at"`
}

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	ExternalID        string `json:"external_id"`
	WalletID          string `json:"wallet_id"`
	Type              string `json:"type"`
	Amount            int64  `json:"amount"`
	RoundRef          string `json:"round_ref"`
	RelatedExternalID string `json:"related_external_id,omitempty"`
	BalanceAfter      int64  `json:"balance_after"`
	CreatedAt         string `json:"created_at"`
}

// TransactionListResponse represents a list of ledger records in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
