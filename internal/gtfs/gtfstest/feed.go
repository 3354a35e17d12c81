// Package gtfstest builds small GTFS feeds for tests.
package gtfstest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Monday is a weekday on which the sample feed's weekday service runs.
var Monday = time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC)

// Holiday removes the weekday service and adds the weekend one.
var Holiday = time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)

// SampleFeed has two routes over five stops:
//   - route 10 (bus) from A to C, with trip T3 overtaking T1 and T2;
//   - route 20 (rail) from B to D, weekdays and weekends.
//
// A and B are 111 m apart, C and D 56 m; E is not served.
var SampleFeed = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
MT,Metro Transit,https://metro.example.com,America/Los_Angeles
`,
	"stops.txt": `stop_id,stop_code,stop_name,stop_lat,stop_lon
A,100,Alder St,47.6000,-122.3300
B,101,Birch St,47.6010,-122.3300
C,102,Cedar St,47.6200,-122.3300
D,103,Dogwood St,47.6205,-122.3300
E,104,Elm St,47.6001,-122.3300
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_long_name,route_type
R10,MT,10,Downtown,3
R20,MT,,Light Rail,2
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WKDY,1,1,1,1,1,0,0,20250101,20251231
SAT,0,0,0,0,0,1,0,20250101,20251231
`,
	"calendar_dates.txt": `service_id,date,exception_type
WKDY,20250704,2
SAT,20250704,1
`,
	"trips.txt": `route_id,service_id,trip_id,trip_headsign
R10,WKDY,T1,Cedar
R10,WKDY,T2,Cedar
R10,WKDY,T3,Cedar Express
R20,SAT,T4,Dogwood
R10,WKDY,T5,Cedar
R20,WKDY,T7,Dogwood
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
T1,08:00:00,08:00:00,A,1
T1,08:10:00,08:10:00,C,2
T2,08:05:00,08:05:00,A,1
T2,08:12:00,08:12:00,C,2
T3,08:06:00,08:06:00,A,1
T3,08:09:00,08:09:00,C,2
T4,09:00:00,09:00:00,B,1
T4,09:05:00,09:05:00,D,2
T5,10:10:00,10:10:00,C,2
T5,10:00:00,10:00:00,A,1
T7,08:20:00,08:20:00,B,1
T7,08:25:00,08:25:00,D,2
`,
	"transfers.txt": `from_stop_id,to_stop_id,transfer_type,min_transfer_time
C,D,2,300
B,A,3,
A,D,2,600
`,
}

// Zip packs the files into a GTFS zip archive, in name order.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// WriteZip writes the files as a zip in a temporary directory and returns its path.
func WriteZip(t testing.TB, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, Zip(t, files), 0o600))
	return path
}
