package services

import "chickstage-backend-go/internal/crud"

var (
	courseTypes = []crud.Option{
		{Value: "video", Label: "Video"},
		{Value: "article", Label: "Article"},
		{Value: "guide", Label: "Guide"},
		{Value: "tutorial", Label: "Tutorial"},
	}
	difficultyLevels = []crud.Option{
		{Value: "beginner", Label: "Beginner"},
		{Value: "intermediate", Label: "Intermediate"},
		{Value: "advanced", Label: "Advanced"},
	}
	streamStatuses = []crud.Option{
		{Value: "scheduled", Label: "Scheduled"},
		{Value: "live", Label: "Live"},
		{Value: "ended", Label: "Ended"},
	}
	currencies = []crud.Option{
		{Value: "USD", Label: "USD"},
		{Value: "KES", Label: "KES"},
		{Value: "EUR", Label: "EUR"},
	}
	itemStatuses = []crud.Option{
		{Value: "active", Label: "Active"},
		{Value: "sold", Label: "Sold"},
		{Value: "pending", Label: "Pending"},
	}
	itemCategories = []crud.Option{
		{Value: "chicks", Label: "Chicks"},
		{Value: "feed", Label: "Feed"},
		{Value: "equipment", Label: "Equipment"},
		{Value: "medicine", Label: "Medicine"},
		{Value: "housing", Label: "Housing"},
		{Value: "other", Label: "Other"},
	}
	lifecycleStages = []crud.Option{
		{Value: "egg", Label: "Egg"},
		{Value: "chick", Label: "Chick"},
		{Value: "juvenile", Label: "Juvenile"},
		{Value: "adult", Label: "Adult"},
	}
)

var Interviews = crud.Schema{
	Key:         "interviews",
	Collection:  "interviews",
	Entity:      "Interview",
	Plural:      "interviews",
	Title:       "Farmer Interviews",
	Description: "Manage farmer interview videos and content",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Kind: crud.KindText, Required: true},
		{Name: "farmer_name", Label: "Farmer Name", Kind: crud.KindText, Required: true},
		{Name: "description", Label: "Description", Kind: crud.KindLongText},
		{Name: "video_url", Label: "Video URL", Kind: crud.KindURL, Placeholder: "https://"},
		{Name: "specialty", Label: "Specialty", Kind: crud.KindText},
		{Name: "farm_location", Label: "Farm Location", Kind: crud.KindText},
		{Name: "experience_years", Label: "Experience (Years)", Kind: crud.KindInt},
		{Name: "interview_date", Label: "Interview Date", Kind: crud.KindDate},
	},
	Columns: []crud.Column{
		{Header: "Title", Field: "title"},
		{Header: "Farmer", Field: "farmer_name"},
		{Header: "Specialty", Field: "specialty"},
		{Header: "Location", Field: "farm_location"},
		{Header: "Experience", Field: "experience_years", Format: crud.FormatYears},
	},
}

var Courses = crud.Schema{
	Key:         "courses",
	Collection:  "courses",
	Entity:      "Course",
	Plural:      "courses",
	Title:       "Learning Courses",
	Description: "Manage educational content and courses",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Kind: crud.KindText, Required: true},
		{Name: "description", Label: "Description", Kind: crud.KindLongText},
		{Name: "content", Label: "Content", Kind: crud.KindLongText},
		{Name: "type", Label: "Type", Kind: crud.KindEnum, Required: true, Options: courseTypes},
		{Name: "difficulty_level", Label: "Difficulty", Kind: crud.KindEnum, Options: difficultyLevels, Fallback: "beginner"},
		{Name: "duration", Label: "Duration", Kind: crud.KindText, Placeholder: "e.g. 30 minutes"},
	},
	Columns: []crud.Column{
		{Header: "Title", Field: "title"},
		{Header: "Type", Field: "type", Format: crud.FormatBadge},
		{Header: "Difficulty", Field: "difficulty_level", Format: crud.FormatBadge},
		{Header: "Duration", Field: "duration"},
	},
}

var Marketplace = crud.Schema{
	Key:         "marketplace",
	Collection:  "marketplace_items",
	Entity:      "Item",
	Plural:      "marketplace items",
	Title:       "Marketplace Items",
	Description: "Manage products and services in the marketplace",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Kind: crud.KindText, Required: true},
		{Name: "description", Label: "Description", Kind: crud.KindLongText},
		{Name: "price", Label: "Price", Kind: crud.KindDecimal},
		{Name: "currency", Label: "Currency", Kind: crud.KindEnum, Options: currencies, Default: "USD", Fallback: "USD"},
		{Name: "status", Label: "Status", Kind: crud.KindEnum, Options: itemStatuses, Default: "active", Fallback: "active"},
		{Name: "category", Label: "Category", Kind: crud.KindEnum, Required: true, Options: itemCategories},
		{Name: "location", Label: "Location", Kind: crud.KindText},
		{Name: "image_url", Label: "Image URL", Kind: crud.KindURL, Placeholder: "https://"},
		{Name: "contact_info", Label: "Contact Info", Kind: crud.KindText},
		{Name: "seller_id", Label: "Seller ID", Kind: crud.KindText, Required: true},
	},
	Columns: []crud.Column{
		{Header: "Title", Field: "title"},
		{Header: "Category", Field: "category", Format: crud.FormatBadge},
		{Header: "Price", Field: "price", Format: crud.FormatPrice, Ref: "currency"},
		{Header: "Status", Field: "status", Format: crud.FormatBadge},
		{Header: "Location", Field: "location"},
	},
}

var Livestreams = crud.Schema{
	Key:         "livestreams",
	Collection:  "livestreams",
	Entity:      "Livestream",
	Plural:      "livestreams",
	Title:       "Livestreams",
	Description: "Manage live streaming sessions and events",
	Fields: []crud.Field{
		{Name: "title", Label: "Title", Kind: crud.KindText, Required: true},
		{Name: "description", Label: "Description", Kind: crud.KindLongText},
		{Name: "stream_url", Label: "Stream URL", Kind: crud.KindURL, Placeholder: "https://"},
		{Name: "status", Label: "Status", Kind: crud.KindEnum, Options: streamStatuses, Default: "scheduled", Fallback: "scheduled"},
		{Name: "scheduled_time", Label: "Scheduled Time", Kind: crud.KindDateTime},
		{Name: "host_id", Label: "Host ID", Kind: crud.KindText, Required: true},
	},
	Columns: []crud.Column{
		{Header: "Title", Field: "title"},
		{Header: "Status", Field: "status", Format: crud.FormatBadge},
		{Header: "Scheduled Time", Field: "scheduled_time", Format: crud.FormatDateTime},
		{Header: "Host ID", Field: "host_id"},
	},
}

var Lifecycle = crud.Schema{
	Key:         "lifecycle",
	Collection:  "lifecycle_records",
	Entity:      "Lifecycle record",
	Plural:      "lifecycle records",
	Title:       "Lifecycle Records",
	Description: "Monitor chicken lifecycle tracking across all users",
	ReadOnly:    true,
	Fields: []crud.Field{
		{Name: "batch_name", Label: "Batch Name", Kind: crud.KindText, Required: true},
		{Name: "breed", Label: "Breed", Kind: crud.KindText},
		{Name: "current_stage", Label: "Current Stage", Kind: crud.KindEnum, Required: true, Options: lifecycleStages},
		{Name: "quantity", Label: "Quantity", Kind: crud.KindInt, Required: true},
		{Name: "start_date", Label: "Start Date", Kind: crud.KindDate, Required: true},
		{Name: "notes", Label: "Notes", Kind: crud.KindLongText},
		{Name: "user_id", Label: "User ID", Kind: crud.KindText, Required: true},
	},
	Columns: []crud.Column{
		{Header: "Batch Name", Field: "batch_name"},
		{Header: "Breed", Field: "breed"},
		{Header: "Current Stage", Field: "current_stage", Format: crud.FormatBadge},
		{Header: "Quantity", Field: "quantity"},
		{Header: "Age", Field: "start_date", Format: crud.FormatAge},
		{Header: "Start Date", Field: "start_date", Format: crud.FormatDate},
		{Header: "User ID", Field: "user_id"},
	},
}

var Users = crud.Schema{
	Key:         "users",
	Collection:  "profiles",
	Entity:      "Profile",
	Plural:      "user profiles",
	Title:       "User Profiles",
	Description: "View and manage registered user profiles",
	ReadOnly:    true,
	Fields: []crud.Field{
		{Name: "user_id", Label: "User ID", Kind: crud.KindText, Required: true},
		{Name: "full_name", Label: "Full Name", Kind: crud.KindText},
		{Name: "phone", Label: "Phone", Kind: crud.KindText},
		{Name: "farm_location", Label: "Farm Location", Kind: crud.KindText},
		{Name: "farm_size", Label: "Farm Size", Kind: crud.KindText},
		{Name: "experience_level", Label: "Experience", Kind: crud.KindEnum, Options: difficultyLevels, Default: "beginner", Fallback: "beginner"},
	},
	Columns: []crud.Column{
		{Header: "Name", Field: "full_name"},
		{Header: "Phone", Field: "phone"},
		{Header: "Farm Location", Field: "farm_location"},
		{Header: "Farm Size", Field: "farm_size"},
		{Header: "Experience", Field: "experience_level", Format: crud.FormatBadge, Empty: "beginner"},
		{Header: "Joined", Field: "created_at", Format: crud.FormatDate},
	},
}

var collections = []crud.Schema{Interviews, Courses, Marketplace, Livestreams, Lifecycle, Users}

// Collections returns the admin managers in tab order.
func Collections() []crud.Schema {
	out := make([]crud.Schema, len(collections))
	copy(out, collections)
	return out
}

func LookupCollection(key string) (crud.Schema, bool) {
	for _, s := range collections {
		if s.Key == key {
			return s, true
		}
	}
	return crud.Schema{}, false
}
