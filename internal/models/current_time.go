package models

import (
	"time"

	"raptor.onebusaway.org/internal/utils"
)

// CurrentTimeModel is the server clock, placed on the loaded service day when
// there is one.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	ServiceDate  string `json:"serviceDate,omitempty"`
	// ServiceTime counts from the start of the service day, so it can pass
	// 24:00:00 or be negative.
	ServiceTime string `json:"serviceTime,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// ServiceDay is the day a timetable was built for. Start is its 00:00:00, which
// is noon minus 12h in the feed's timezone.
type ServiceDay struct {
	Date  string
	Start time.Time
}

// NewCurrentTimeData reports t in the service day's timezone, or as given when
// day is nil.
func NewCurrentTimeData(t time.Time, day *ServiceDay) CurrentTimeData {
	entry := CurrentTimeModel{Time: t.UnixMilli()}
	if day != nil {
		t = t.In(day.Start.Location())
		entry.ServiceDate = day.Date
		entry.ServiceTime = utils.FormatClock(int(t.Sub(day.Start) / time.Second))
		entry.TimeZone = day.Start.Location().String()
	}
	entry.ReadableTime = t.Format(time.RFC3339)

	return CurrentTimeData{
		Entry:      entry,
		References: NewEmptyReferences(),
	}
}
