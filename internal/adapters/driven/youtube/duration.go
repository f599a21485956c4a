package youtube

import "regexp"

// ISO-8601 duration as the API reports it, e.g. "PT1H23M45S" or "PT58M".
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts an ISO-8601 video duration to seconds. Malformed
// input yields zero, which downstream filtering treats as too short to be a
// webcast.
func parseISODuration(raw string) int {
	match := durationPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0
	}

	seconds := 0
	for i, unit := range []int{3600, 60, 1} {
		seconds += atoi(match[i+1]) * unit
	}
	return seconds
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
