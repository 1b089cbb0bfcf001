package weights

import m "vecindario/internal/model"

// Delta is the set of weight changes one answer contributes.
type Delta map[m.Category]int

// Rule maps the answers of one profile field to deltas.
type Rule struct {
	Field  string
	Answer func(p m.UserProfile) []string
	Values map[string]Delta
}

func single(get func(p m.UserProfile) string) func(p m.UserProfile) []string {
	return func(p m.UserProfile) []string { return []string{get(p)} }
}

// baseline is the typical importance of each category before any answer is applied.
var baseline = m.WeightVector{
	m.Security:        60,
	m.Shops:           30,
	m.Schools:         20,
	m.Hospitals:       30,
	m.FireStations:    10,
	m.PoliceStations:  15,
	m.NightLeisure:    20,
	m.DayLeisure:      30,
	m.Universities:    10,
	m.PublicTransport: 40,
	m.Taxis:           10,
	m.BikeLanes:       15,
	m.Walkability:     35,
	m.Parking:         20,
	m.Connectivity:    30,
	m.GreenZones:      40,
	m.Noise:           40,
	m.AirQuality:      40,
	m.Occupability:    20,
	m.Accessibility:   25,
	m.Salary:          0,
}

// Rules is the full questionnaire table. Some ladders are deliberately uneven:
// nightlife "baja" adds nothing while "evitar" subtracts, and day leisure "baja"
// subtracts while shopping, taxi and universities "baja" add nothing.
var Rules = []Rule{
	{
		Field:  "age",
		Answer: single(func(p m.UserProfile) string { return p.Age }),
		Values: map[string]Delta{
			"18-25": {m.NightLeisure: 30, m.Universities: 30, m.PublicTransport: 15, m.BikeLanes: 10, m.Schools: -10, m.Salary: -20},
			"26-35": {m.NightLeisure: 15, m.Connectivity: 15, m.Shops: 10, m.DayLeisure: 10},
			"36-50": {m.Schools: 15, m.Security: 10, m.Parking: 10, m.Hospitals: 5},
			"51-65": {m.Hospitals: 20, m.Security: 15, m.Noise: 15, m.Accessibility: 10, m.NightLeisure: -10},
			"65+":   {m.Hospitals: 35, m.Accessibility: 30, m.Noise: 25, m.Security: 20, m.NightLeisure: -25, m.Universities: -10, m.BikeLanes: -10},
		},
	},
	{
		Field:  "family",
		Answer: single(func(p m.UserProfile) string { return p.Family }),
		Values: map[string]Delta{
			"solo":               {m.NightLeisure: 10, m.Connectivity: 10},
			"pareja":             {m.DayLeisure: 10, m.Shops: 5},
			"hijos-pequenos":     {m.Schools: 40, m.Security: 25, m.GreenZones: 20, m.Hospitals: 15, m.NightLeisure: -25, m.Noise: 15},
			"hijos-adolescentes": {m.Schools: 30, m.PublicTransport: 15, m.Security: 15, m.DayLeisure: 10},
			"piso-compartido":    {m.PublicTransport: 15, m.NightLeisure: 10, m.Salary: -15},
			"mayores-a-cargo":    {m.Hospitals: 30, m.Accessibility: 25, m.Noise: 10},
		},
	},
	{
		Field:  "lifestyle",
		Answer: func(p m.UserProfile) []string { return p.Lifestyle },
		Values: map[string]Delta{
			"deportista":  {m.BikeLanes: 20, m.GreenZones: 20, m.AirQuality: 15, m.DayLeisure: 10},
			"nocturno":    {m.NightLeisure: 30, m.Noise: -20},
			"cultural":    {m.DayLeisure: 20, m.Universities: 10, m.PublicTransport: 10},
			"hogareno":    {m.Noise: 15, m.Shops: 10, m.NightLeisure: -15},
			"mascotas":    {m.GreenZones: 25, m.Walkability: 10},
			"ecologico":   {m.BikeLanes: 15, m.PublicTransport: 15, m.AirQuality: 20, m.GreenZones: 15, m.Parking: -15},
			"tecnologico": {m.Connectivity: 35},
		},
	},
	{
		Field:  "priorities",
		Answer: func(p m.UserProfile) []string { return p.Priorities },
		Values: map[string]Delta{
			"seguridad":     {m.Security: 30, m.PoliceStations: 15},
			"transporte":    {m.PublicTransport: 30},
			"naturaleza":    {m.GreenZones: 30, m.AirQuality: 15},
			"tranquilidad":  {m.Noise: 30},
			"ocio":          {m.DayLeisure: 15, m.NightLeisure: 15},
			"servicios":     {m.Shops: 15, m.Hospitals: 15, m.FireStations: 10},
			"conectividad":  {m.Connectivity: 30},
			"economia":      {m.Salary: -30},
			"empleo":        {m.Occupability: 30},
			"accesibilidad": {m.Accessibility: 30},
		},
	},
	{
		Field:  "environment",
		Answer: single(func(p m.UserProfile) string { return p.Environment }),
		Values: map[string]Delta{
			"naturaleza": {m.GreenZones: 60, m.AirQuality: 20, m.Noise: 15, m.NightLeisure: -10},
			"urbano":     {m.Shops: 20, m.PublicTransport: 15, m.NightLeisure: 15, m.Walkability: 15, m.GreenZones: -15},
			"tranquilo":  {m.Noise: 40, m.GreenZones: 15, m.NightLeisure: -20},
			"animado":    {m.NightLeisure: 30, m.DayLeisure: 15, m.Noise: -30},
		},
	},
	{
		Field:  "airQuality",
		Answer: single(func(p m.UserProfile) string { return p.AirQuality }),
		Values: map[string]Delta{
			"muy-importante": {m.AirQuality: 50},
			"importante":     {m.AirQuality: 25},
			"indiferente":    {m.AirQuality: -10},
		},
	},
	{
		Field:  "workMode",
		Answer: single(func(p m.UserProfile) string { return p.WorkMode }),
		Values: map[string]Delta{
			"remoto":     {m.Connectivity: 40, m.Noise: 10, m.PublicTransport: -10},
			"hibrido":    {m.Connectivity: 20, m.PublicTransport: 10},
			"presencial": {m.PublicTransport: 20, m.Parking: 10, m.Occupability: 15},
			"buscando":   {m.Occupability: 40, m.Salary: -15},
		},
	},
	{
		Field:  "housing",
		Answer: single(func(p m.UserProfile) string { return p.Housing }),
		Values: map[string]Delta{
			"economica": {m.Salary: -25},
			"estandar":  {},
			"premium":   {m.Salary: 35, m.Security: 10, m.Parking: 10},
		},
	},
	{
		Field:  "budget",
		Answer: single(func(p m.UserProfile) string { return p.Budget }),
		Values: map[string]Delta{
			"bajo":       {m.Salary: -70, m.Shops: -5},
			"medio-bajo": {m.Salary: -40},
			"medio":      {m.Salary: -10},
			"medio-alto": {m.Salary: 40},
			"alto":       {m.Salary: 70, m.Security: 10},
		},
	},
	{
		Field:  "security",
		Answer: single(func(p m.UserProfile) string { return p.Security }),
		Values: map[string]Delta{
			"muy-importante":  {m.Security: 40, m.PoliceStations: 20},
			"importante":      {m.Security: 20, m.PoliceStations: 10},
			"poco-importante": {m.Security: -15},
			"nada-importante": {m.Security: -30},
		},
	},
	{
		Field:  "commute",
		Answer: single(func(p m.UserProfile) string { return p.Commute }),
		Values: map[string]Delta{
			"corta": {m.PublicTransport: 20, m.Walkability: 20, m.BikeLanes: 10},
			"media": {m.PublicTransport: 10},
			"larga": {m.Parking: 15, m.Taxis: 5},
		},
	},
	{
		Field:  "nightlife",
		Answer: single(func(p m.UserProfile) string { return p.Nightlife }),
		Values: map[string]Delta{
			"alta":   {m.NightLeisure: 40, m.Noise: -15},
			"media":  {m.NightLeisure: 15},
			"evitar": {m.NightLeisure: -50, m.Noise: 25},
		},
	},
	{
		Field:  "dayLeisure",
		Answer: single(func(p m.UserProfile) string { return p.DayLeisure }),
		Values: map[string]Delta{
			"alta":  {m.DayLeisure: 35},
			"media": {m.DayLeisure: 15},
			"baja":  {m.DayLeisure: -10},
		},
	},
	{
		Field:  "shopping",
		Answer: single(func(p m.UserProfile) string { return p.Shopping }),
		Values: map[string]Delta{
			"alta":  {m.Shops: 35},
			"media": {m.Shops: 15},
		},
	},
	{
		Field:  "transit",
		Answer: single(func(p m.UserProfile) string { return p.Transit }),
		Values: map[string]Delta{
			"alta":   {m.PublicTransport: 40},
			"media":  {m.PublicTransport: 20},
			"baja":   {m.PublicTransport: -15},
			"no-uso": {m.PublicTransport: -30, m.Parking: 15},
		},
	},
	{
		Field:  "taxi",
		Answer: single(func(p m.UserProfile) string { return p.Taxi }),
		Values: map[string]Delta{
			"alta":  {m.Taxis: 35},
			"media": {m.Taxis: 15},
		},
	},
	{
		Field:  "bike",
		Answer: single(func(p m.UserProfile) string { return p.Bike }),
		Values: map[string]Delta{
			"alta":   {m.BikeLanes: 40},
			"media":  {m.BikeLanes: 20},
			"baja":   {m.BikeLanes: -5},
			"no-uso": {m.BikeLanes: -25},
		},
	},
	{
		Field:  "parking",
		Answer: single(func(p m.UserProfile) string { return p.Parking }),
		Values: map[string]Delta{
			"alta":      {m.Parking: 40},
			"media":     {m.Parking: 20},
			"baja":      {m.Parking: -10},
			"sin-coche": {m.Parking: -35, m.PublicTransport: 10},
		},
	},
	{
		Field:  "trails",
		Answer: single(func(p m.UserProfile) string { return p.Trails }),
		Values: map[string]Delta{
			"alta":  {m.GreenZones: 25, m.AirQuality: 10},
			"media": {m.GreenZones: 10},
		},
	},
	{
		Field:  "hospitals",
		Answer: single(func(p m.UserProfile) string { return p.Hospitals }),
		Values: map[string]Delta{
			"alta":  {m.Hospitals: 40, m.FireStations: 10},
			"media": {m.Hospitals: 20},
		},
	},
	{
		Field:  "schools",
		Answer: single(func(p m.UserProfile) string { return p.Schools }),
		Values: map[string]Delta{
			"alta":      {m.Schools: 45},
			"media":     {m.Schools: 20},
			"baja":      {m.Schools: -10},
			"no-aplica": {m.Schools: -20},
		},
	},
	{
		Field:  "universities",
		Answer: single(func(p m.UserProfile) string { return p.Universities }),
		Values: map[string]Delta{
			"alta":  {m.Universities: 45},
			"media": {m.Universities: 20},
		},
	},
}
