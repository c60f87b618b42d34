package backend

import (
	"bytes"
	"encoding/json"

	"roomadmin/internal/paging"
)

// ID is a backend identifier. The backend sends ids as strings or numbers
// depending on the endpoint; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type DashboardMetrics struct {
	ActiveUsers               int64   `json:"activeUsers"`
	NewUsersThisMonth         int64   `json:"newUsersThisMonth"`
	TotalDepositsThisMonth    float64 `json:"totalDepositsThisMonth"`
	TotalWithdrawalsThisMonth float64 `json:"totalWithdrawalsThisMonth"`
	TotalSystemBalance        float64 `json:"totalSystemBalance"`
}

type SystemStatistics struct {
	TotalRentedRooms           int64   `json:"totalRentedRooms"`
	TotalActiveRentedRooms     int64   `json:"totalActiveRentedRooms"`
	TotalCompletedTransactions int64   `json:"totalCompletedTransactions"`
	TotalTransactionVolume     float64 `json:"totalTransactionVolume"`
}

type Transaction struct {
	ID        ID      `json:"id"`
	UserID    ID      `json:"userId"`
	UserName  string  `json:"userName"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

type User struct {
	ID         ID      `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Balance    float64 `json:"balance"`
	IsVerified bool    `json:"isVerified"`
	Status     string  `json:"status"`
}

// UserPage is the paginated users envelope shared by /users and /admin/users/status.
type UserPage struct {
	Users         []User `json:"users"`
	CurrentPage   int    `json:"currentPage"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int    `json:"totalElements"`
	HasNext       bool   `json:"hasNext"`
	HasPrevious   bool   `json:"hasPrevious"`
}

type RoomReport struct {
	ID         ID     `json:"id"`
	RoomID     ID     `json:"roomId"`
	ReporterID ID     `json:"reporterId"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

type UserReport struct {
	ID             ID     `json:"id"`
	ReporterID     ID     `json:"reporterId"`
	ReportedUserID ID     `json:"reportedUserId"`
	Type           string `json:"type"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
}

// Ban is an active ban or a ban history entry.
type Ban struct {
	ID        ID     `json:"id"`
	UserID    ID     `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Reason    string `json:"reason"`
	BannedAt  string `json:"bannedAt"`
	ExpiresAt string `json:"expiresAt"`
}

type BanRequest struct {
	UserID    string `json:"userId"`
	Reason    string `json:"reason"`
	ExpiresAt string `json:"expiresAt"`
}

type BankInfo struct {
	UserID        ID     `json:"userId"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type Verification struct {
	ID                 ID     `json:"id"`
	UserID             ID     `json:"userId"`
	VerificationStatus string `json:"verificationStatus"`
	FrontImageURL      string `json:"frontImageUrl"`
	BackImageURL       string `json:"backImageUrl"`
	SelfieImageURL     string `json:"selfieImageUrl"`
	CreatedAt          string `json:"createdAt"`
}

type contentEnvelope[T any] struct {
	Content []T `json:"content"`
}

// Page adapts the envelope to the paging controller's page shape.
func (p UserPage) Page() paging.Page[User] {
	return paging.Page[User]{
		Items:       p.Users,
		TotalPages:  p.TotalPages,
		TotalItems:  p.TotalElements,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}
