package domain

// SampleAddressBook returns the demo data set used by `fopmanager seed`.
func SampleAddressBook() *AddressBook {
	ab := NewAddressBook()
	for _, h := range []House{{Name: "Red"}, {Name: "Blue"}} {
		mustSample(ab.AddHouse(h))
	}
	for _, g := range []Group{{Name: "G1", House: "Red"}, {Name: "G2", House: "Red"}, {Name: "G3", House: "Blue"}} {
		mustSample(ab.AddGroup(g))
	}
	for _, p := range samplePersons() {
		mustSample(ab.AddPerson(p))
	}
	return ab
}

func samplePersons() []Person {
	return []Person{
		{Name: "Alex Yeoh", Sex: "M", Birthday: "01021996", Phone: "87438807", Email: "alexyeoh@example.com", Major: "Computer Science", Group: "G1", Tags: []string{"friends"}},
		{Name: "Bernice Yu", Sex: "F", Birthday: "01021996", Phone: "99272758", Email: "berniceyu@example.com", Major: "Information System", Group: "G1", Tags: []string{"colleagues", "friends"}},
		{Name: "Charlotte Oliveiro", Sex: "F", Birthday: "01021996", Phone: "93210283", Email: "charlotte@example.com", Major: "Computer Engineering", Group: "G2", Tags: []string{"neighbours"}},
		{Name: "David Li", Sex: "M", Birthday: "01021996", Phone: "91031282", Email: "lidavid@example.com", Major: "Business Analytics", Group: "G2", Tags: []string{"family"}},
		{Name: "Irfan Ibrahim", Sex: "M", Birthday: "01021996", Phone: "92492021", Email: "irfan@example.com", Major: "Information Security", Group: "G3", Tags: []string{"classmates"}},
		{Name: "Roy Balakrishnan", Sex: "M", Birthday: "01021996", Phone: "92624417", Email: "royb@example.com", Major: "Computer Science", Group: "G3", Tags: []string{"colleagues"}},
	}
}

func mustSample(err error) {
	if err != nil {
		panic("domain: invalid sample data: " + err.Error())
	}
}
