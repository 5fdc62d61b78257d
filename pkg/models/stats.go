package models

// TimeBucket is one calendar-month slot in the trailing activity window.
// Period is formatted "YYYY/MM". Empty months are present with Count 0.
type TimeBucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// AuthorRank is one row of the author frequency table, sorted descending
// by Count. Ties keep the order the authors were first seen in the input.
type AuthorRank struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}
