package metric

// Registry is the static (class, attribute) → Descriptor table. It is
// populated once at construction and read-only afterwards, so lookups
// are safe from any number of goroutines.
type Registry struct {
	entries map[registryKey]Descriptor
}

type registryKey struct {
	class     string
	attribute string
}

// Entry seeds one registry row
type Entry struct {
	Class      string
	Attribute  string
	Descriptor Descriptor
}

func NewRegistry(entries []Entry) *Registry {
	table := make(map[registryKey]Descriptor, len(entries))
	for _, e := range entries {
		table[registryKey{e.Class, e.Attribute}] = e.Descriptor
	}

	return &Registry{entries: table}
}

// Lookup returns the registered descriptor for the pair. A registry
// entry is authoritative and overrides value-based inference.
func (r *Registry) Lookup(class, attribute string) (Descriptor, bool) {
	desc, ok := r.entries[registryKey{class, attribute}]
	return desc, ok
}

// Entries returns every registered (class, attribute) pair
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.entries))
	for key, desc := range r.entries {
		entries = append(entries, Entry{
			Class:      key.class,
			Attribute:  key.attribute,
			Descriptor: desc,
		})
	}

	return entries
}

func numeric(unit string) Descriptor {
	return Descriptor{ValueKind: KindNumeric, DisplayKind: KindNumeric, Unit: unit}
}

func text() Descriptor {
	return Descriptor{ValueKind: KindText, DisplayKind: KindText}
}

// DefaultRegistry covers the hub's well-known classes and attributes.
// Timestamp-valued attributes are numeric unixtime; state variables
// that look numeric on the wire but encode discrete states are text.
func DefaultRegistry() *Registry {
	return NewRegistry([]Entry{
		{Class: "HaDevice", Attribute: "LastUpdate", Descriptor: numeric("unixtime")},
		{Class: "HaDevice", Attribute: "FirstConfigured", Descriptor: numeric("unixtime")},
		{Class: "HaDevice", Attribute: "LastTimeCheck", Descriptor: numeric("unixtime")},
		{Class: "HaDevice", Attribute: "CommFailure", Descriptor: text()},
		{Class: "HaDevice", Attribute: "Configured", Descriptor: text()},
		{Class: "SwitchPower", Attribute: "Status", Descriptor: text()},
		{Class: "SwitchPower", Attribute: "Target", Descriptor: text()},
		{Class: "Dimming", Attribute: "LoadLevelStatus", Descriptor: numeric("%")},
		{Class: "Dimming", Attribute: "LoadLevelTarget", Descriptor: numeric("%")},
		{Class: "SecuritySensor", Attribute: "Tripped", Descriptor: text()},
		{Class: "SecuritySensor", Attribute: "Armed", Descriptor: text()},
		{Class: "SecuritySensor", Attribute: "LastTrip", Descriptor: numeric("unixtime")},
		{Class: "TemperatureSensor", Attribute: "CurrentTemperature", Descriptor: numeric("C")},
		{Class: "LightSensor", Attribute: "CurrentLevel", Descriptor: numeric("lux")},
		{Class: "HumiditySensor", Attribute: "CurrentLevel", Descriptor: numeric("%")},
		{Class: "EnergyMetering", Attribute: "Watts", Descriptor: numeric("W")},
		{Class: "EnergyMetering", Attribute: "KWH", Descriptor: numeric("kWh")},
		{Class: "ZWaveDevice", Attribute: "LastReset", Descriptor: numeric("unixtime")},
		{Class: "ZWaveDevice", Attribute: "PollRatings", Descriptor: numeric("")},
	})
}
