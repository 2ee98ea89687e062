package retrieval

// SeedCatalog is the embedded ICD-10-GM subset shipped with the service. It
// covers the chapters the classifier routes to and is loaded into the
// in-memory repository by default or into Postgres by the seed command.
func SeedCatalog() []Code {
	return []Code{
		// Chapter II — Neoplasms
		{Code: "C50.9", Display: "Bösartige Neubildung der Brustdrüse, nicht näher bezeichnet", Chapter: "II"},
		{Code: "C34.9", Display: "Bösartige Neubildung der Lunge, nicht näher bezeichnet", Chapter: "II"},
		{Code: "C61", Display: "Bösartige Neubildung der Prostata", Chapter: "II"},
		{Code: "C78.0", Display: "Sekundäre bösartige Neubildung der Lunge", Chapter: "II"},
		{Code: "C79.5", Display: "Sekundäre bösartige Neubildung des Knochens und des Knochenmarkes", Chapter: "II"},
		{Code: "D05.1", Display: "Carcinoma in situ der Milchgänge", Chapter: "II"},
		{Code: "D24", Display: "Gutartige Neubildung der Brustdrüse", Chapter: "II"},
		{Code: "D48.6", Display: "Neubildung unsicheren Verhaltens der Brustdrüse", Chapter: "II"},

		// Chapter VI — Nervous system
		{Code: "G54.4", Display: "Läsionen der lumbosakralen Nervenwurzeln, anderenorts nicht klassifiziert", Chapter: "VI"},
		{Code: "G55.1", Display: "Kompression von Nervenwurzeln bei Bandscheibenschäden", Chapter: "VI"},

		// Chapter IX — Circulatory system
		{Code: "I10.90", Display: "Essentielle Hypertonie, nicht näher bezeichnet", Chapter: "IX"},
		{Code: "I21.9", Display: "Akuter Myokardinfarkt, nicht näher bezeichnet", Chapter: "IX"},
		{Code: "I25.9", Display: "Chronische ischämische Herzkrankheit, nicht näher bezeichnet", Chapter: "IX"},
		{Code: "I50.9", Display: "Herzinsuffizienz, nicht näher bezeichnet", Chapter: "IX"},
		{Code: "I35.0", Display: "Aortenklappenstenose", Chapter: "IX"},

		// Chapter X — Respiratory system
		{Code: "J18.9", Display: "Pneumonie, nicht näher bezeichnet", Chapter: "X"},
		{Code: "J44.9", Display: "Chronische obstruktive Lungenkrankheit, nicht näher bezeichnet", Chapter: "X"},
		{Code: "J90", Display: "Pleuraerguss, anderenorts nicht klassifiziert", Chapter: "X"},
		{Code: "J98.4", Display: "Sonstige Veränderungen der Lunge", Chapter: "X"},

		// Chapter XI — Digestive system
		{Code: "K80.20", Display: "Gallenblasenstein ohne Cholezystitis, ohne Gallenwegsobstruktion", Chapter: "XI"},
		{Code: "K76.0", Display: "Fettleber, anderenorts nicht klassifiziert", Chapter: "XI"},

		// Chapter XIII — Musculoskeletal
		{Code: "M51.1", Display: "Lumbale und sonstige Bandscheibenschäden mit Radikulopathie", Chapter: "XIII"},
		{Code: "M51.2", Display: "Sonstige näher bezeichnete Bandscheibenverlagerung", Chapter: "XIII"},
		{Code: "M48.06", Display: "Spinalkanalstenose, Lumbalbereich", Chapter: "XIII"},
		{Code: "M42.16", Display: "Osteochondrose der Wirbelsäule beim Erwachsenen, Lumbalbereich", Chapter: "XIII"},
		{Code: "M54.5", Display: "Kreuzschmerz", Chapter: "XIII"},
		{Code: "M75.1", Display: "Läsionen der Rotatorenmanschette", Chapter: "XIII"},
		{Code: "M81.9", Display: "Osteoporose, nicht näher bezeichnet", Chapter: "XIII"},

		// Chapter XIV — Genitourinary (breast disorders)
		{Code: "N60.1", Display: "Diffuse zystische Mastopathie", Chapter: "XIV"},
		{Code: "N63", Display: "Nicht näher bezeichnete Knoten in der Mamma", Chapter: "XIV"},
		{Code: "N64.4", Display: "Mastodynie", Chapter: "XIV"},
		{Code: "N20.0", Display: "Nierenstein", Chapter: "XIV"},

		// Chapter XVIII — Symptoms and abnormal findings
		{Code: "R91", Display: "Abnorme Befunde bei der bildgebenden Diagnostik der Lunge", Chapter: "XVIII"},
		{Code: "R92", Display: "Abnorme Befunde bei der bildgebenden Diagnostik der Mamma", Chapter: "XVIII"},
		{Code: "R93.5", Display: "Abnorme Befunde bei bildgebender Diagnostik sonstiger Abdominalregionen", Chapter: "XVIII"},
		{Code: "R10.4", Display: "Sonstige und nicht näher bezeichnete Bauchschmerzen", Chapter: "XVIII"},

		// Chapter XIX — Injury
		{Code: "S22.06", Display: "Fraktur eines thorakalen Wirbels", Chapter: "XIX"},
		{Code: "S32.0", Display: "Fraktur eines Lendenwirbels", Chapter: "XIX"},
		{Code: "S42.3", Display: "Fraktur des Humerusschaftes", Chapter: "XIX"},
		{Code: "S52.5", Display: "Distale Fraktur des Radius", Chapter: "XIX"},

		// Chapter XXI — Factors influencing health status
		{Code: "Z12.31", Display: "Spezielles Screening auf Neubildung der Mamma im Rahmen des Mammographie-Screenings", Chapter: "XXI"},
		{Code: "Z12.1", Display: "Spezielles Screening auf Neubildung des Darmes", Chapter: "XXI"},
		{Code: "Z85.3", Display: "Bösartige Neubildung der Brustdrüse in der Eigenanamnese", Chapter: "XXI"},
		{Code: "Z08.9", Display: "Nachuntersuchung nach Behandlung wegen bösartiger Neubildung", Chapter: "XXI"},
	}
}
