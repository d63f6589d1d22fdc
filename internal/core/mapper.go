package core

import "strings"

// ToSchools maps parsed schools feed records to School values.
func ToSchools(records []Record) []School {
	schools := make([]School, 0, len(records))
	for _, r := range records {
		lat := ToPgFloat8(r.Get(ColSchoolLat))
		lng := ToPgFloat8(r.Get(ColSchoolLng))

		schools = append(schools, School{
			Code:        r.Get(ColSchoolCode),
			Name:        r.Get(ColSchoolName),
			District:    r.Get(ColSchoolDistrict),
			Latitude:    lat.Float64,
			Longitude:   lng.Float64,
			HasLocation: lat.Valid && lng.Valid,
		})
	}
	return schools
}

// ToResourcePersons maps parsed resource persons feed records.
func ToResourcePersons(records []Record) []ResourcePerson {
	rps := make([]ResourcePerson, 0, len(records))
	for _, r := range records {
		rps = append(rps, ResourcePerson{
			Name:           r.Get(ColRPName),
			Topic:          r.Get(ColRPTopic),
			District:       r.Get(ColRPDistrict),
			TrainingStatus: r.Get(ColRPTrainingStatus),
			Mobile:         r.Get(ColRPMobile),
			Email:          r.Get(ColRPEmail),
		})
	}
	return rps
}

// ToTopics reads the topics feed as a plain list: one topic per non-blank
// line, in source order. The first line is kept; the feed has no header.
func ToTopics(text string) []string {
	var topics []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		topic := strings.TrimSpace(strings.ReplaceAll(line, `"`, ""))
		if topic == "" {
			continue
		}
		topics = append(topics, topic)
	}
	return topics
}
