package crud

var courseSchema = Schema{
	Key:        "courses",
	Collection: "courses",
	Entity:     "Course",
	Plural:     "courses",
	Title:      "Courses",
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindLongText},
		{Name: "content", Label: "Content", Kind: KindLongText},
		{Name: "type", Label: "Type", Kind: KindEnum, Required: true, Options: []Option{
			{Value: "video", Label: "Video"}, {Value: "article", Label: "Article"},
		}},
		{Name: "difficulty_level", Label: "Difficulty Level", Kind: KindEnum, Fallback: "beginner", Options: []Option{
			{Value: "beginner", Label: "Beginner"}, {Value: "advanced", Label: "Advanced"},
		}},
		{Name: "duration", Label: "Duration", Kind: KindText},
	},
	Columns: []Column{
		{Header: "Title", Field: "title"},
		{Header: "Type", Field: "type", Format: FormatBadge},
		{Header: "Difficulty", Field: "difficulty_level", Format: FormatBadge},
		{Header: "Duration", Field: "duration"},
	},
}

var livestreamSchema = Schema{
	Key:        "livestreams",
	Collection: "livestreams",
	Entity:     "Livestream",
	Plural:     "livestreams",
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true},
		{Name: "description", Label: "Description", Kind: KindLongText},
		{Name: "stream_url", Label: "Stream URL", Kind: KindURL},
		{Name: "status", Label: "Status", Kind: KindEnum, Default: "scheduled", Fallback: "scheduled", Options: []Option{
			{Value: "scheduled"}, {Value: "live"}, {Value: "ended"},
		}},
		{Name: "scheduled_time", Label: "Scheduled Time", Kind: KindDateTime},
		{Name: "host_id", Label: "Host ID", Kind: KindText, Required: true},
	},
}

var interviewSchema = Schema{
	Key:        "interviews",
	Collection: "interviews",
	Entity:     "Interview",
	Plural:     "interviews",
	Fields: []Field{
		{Name: "title", Label: "Title", Kind: KindText, Required: true},
		{Name: "farmer_name", Label: "Farmer Name", Kind: KindText, Required: true},
		{Name: "experience_years", Label: "Experience Years", Kind: KindInt},
		{Name: "interview_date", Label: "Interview Date", Kind: KindDate},
		{Name: "rating", Label: "Rating", Kind: KindDecimal},
	},
}

var profileSchema = Schema{
	Key:        "users",
	Collection: "profiles",
	Entity:     "Profile",
	Plural:     "user profiles",
	ReadOnly:   true,
	Fields: []Field{
		{Name: "full_name", Label: "Full Name", Kind: KindText},
	},
}
