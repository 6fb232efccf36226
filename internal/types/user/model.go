package user

type User struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	TotalOrders int    `json:"totalOrders"`
	TotalSpent  int    `json:"totalSpent"`
	CreatedAt   int64  `json:"createdAt"`
}

// Public strips fields that must never reach a client.
func (u User) Public() User {
	u.Password = ""
	return u
}
