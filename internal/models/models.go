package models

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleFarmer = "FARMER"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Category struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"-" json:"count"`
}

type Product struct {
	ID            int     `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	Price         float64 `yaml:"price" json:"price"`
	OriginalPrice float64 `yaml:"original_price" json:"originalPrice,omitempty"`
	Image         string  `yaml:"image" json:"image"`
	Seller        string  `yaml:"seller" json:"seller"`
	Location      string  `yaml:"location" json:"location"`
	Rating        float64 `yaml:"rating" json:"rating"`
	Reviews       int     `yaml:"reviews" json:"reviews"`
	Category      string  `yaml:"category" json:"category"`
	Description   string  `yaml:"description" json:"description"`
	Availability  string  `yaml:"availability" json:"availability"`
	Phone         string  `yaml:"phone" json:"phone"`
	Featured      bool    `yaml:"featured" json:"featured"`
}

func (p Product) InStock() bool {
	return p.Availability == "In Stock"
}

type Course struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Duration    string `yaml:"duration" json:"duration"`
	Type        string `yaml:"type" json:"type"`
}

type Interview struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Farmer      string `yaml:"farmer" json:"farmer"`
	Location    string `yaml:"location" json:"location"`
	Date        string `yaml:"date" json:"date"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
	Featured    bool   `yaml:"featured" json:"featured"`
}

type Batch struct {
	ID              int    `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	StartDate       string `yaml:"start_date" json:"startDate"`
	CurrentAge      int    `yaml:"current_age" json:"currentAge"`
	TotalChicks     int    `yaml:"total_chicks" json:"totalChicks"`
	HealthyChicks   int    `yaml:"healthy_chicks" json:"healthyChicks"`
	Status          string `yaml:"status" json:"status"`
	Stage           string `yaml:"stage" json:"stage"`
	NextVaccination string `yaml:"next_vaccination" json:"nextVaccination"`
	FeedType        string `yaml:"feed_type" json:"feedType"`
	Progress        int    `yaml:"progress" json:"progress"`
}

// HealthyPercent is the rounded share of healthy chicks in the batch.
func (b Batch) HealthyPercent() int {
	if b.TotalChicks == 0 {
		return 0
	}
	return (b.HealthyChicks*100 + b.TotalChicks/2) / b.TotalChicks
}

type Stage struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Completed   bool   `yaml:"completed" json:"completed"`
	Current     bool   `yaml:"current" json:"current"`
}

type BatchUpdate struct {
	Date        string `yaml:"date" json:"date"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
	Status      string `yaml:"status" json:"status"`
}

type ChatMessage struct {
	ID      int    `yaml:"id" json:"id"`
	User    string `yaml:"user" json:"user"`
	Message string `yaml:"message" json:"message"`
	Time    string `yaml:"time" json:"time"`
}

type UpcomingStream struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Date        string `yaml:"date" json:"date"`
	Time        string `yaml:"time" json:"time"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
}

type LiveStats struct {
	Live     bool   `yaml:"live" json:"live"`
	Viewers  int    `yaml:"viewers" json:"viewers"`
	Duration string `yaml:"duration" json:"duration"`
	Likes    int    `yaml:"likes" json:"likes"`
	Comments int    `yaml:"comments" json:"comments"`
}

type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Footer struct {
	About     string   `yaml:"about" json:"about"`
	Services  []string `yaml:"services" json:"services"`
	Contact   []Link   `yaml:"contact" json:"contact"`
	Copyright string   `yaml:"copyright" json:"copyright"`
}
