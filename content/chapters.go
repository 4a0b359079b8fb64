package content

// Default returns the cell biology book.
func Default() *Book {
	b, err := NewBook(Returns{
		Start:         ChapterWelcome,
		StartLabel:    "Back to start",
		Recovery:      ChapterTypes,
		RecoveryLabel: "Back to cell types",
	}, defaultChapters...)
	if err != nil {
		// static data, this should never happen
		panic(err)
	}
	return b
}

var defaultChapters = []Chapter{
	{
		ID:    ChapterWelcome,
		Title: "Welcome",
		Body: `🔐 WELCOME!

This game covers exactly the contents of the study material:
1) Plasma membrane
2) Prokaryote × Eukaryote
3) ANIMAL eukaryotic cell
4) PLANT eukaryotic cell
5) Levels of organization
6) Tissues`,
		Transitions: []Transition{
			{Label: "Begin", Target: ChapterMembrane},
		},
	},
	{
		ID:    ChapterMembrane,
		Title: "Plasma membrane",
		Image: ImageMembrane,
		Body: `🧩 CHAPTER 1 — PLASMA MEMBRANE

The plasma membrane surrounds the cell and controls the ENTRY/EXIT of substances (selective permeability).`,
		Transitions: []Transition{
			{Label: "Cell types", Target: ChapterTypes},
		},
	},
	{
		ID:    ChapterTypes,
		Title: "Cell types",
		Image: ImageTypes,
		Body: `🧩 CHAPTER 2 — CELL TYPES

• PROKARYOTE: no delimited nucleus; DNA in the cytoplasm; plasma membrane; may have a cell wall; ribosomes.
• EUKARYOTE: has a delimited nucleus (nuclear envelope) and several membranous organelles.

Choose a eukaryotic cell to READ about:`,
		Transitions: []Transition{
			{Label: "ANIMAL EUKARYOTIC CELL", Target: ChapterAnimal},
			{Label: "PLANT EUKARYOTIC CELL", Target: ChapterPlant},
			{Label: "Next: Levels of organization", Target: ChapterLevels},
		},
	},
	{
		ID:    ChapterAnimal,
		Title: "Animal eukaryotic cell",
		Image: ImageAnimal,
		Body: `🧩 CHAPTER 3 — ANIMAL EUKARYOTIC CELL

Main items of the material:
• Plasma membrane (delimits the cell), cytosol
• Nucleus: nuclear envelope and nucleolus
• Smooth E.R. (lipids) and rough E.R. (with ribosomes; proteins)
• Ribosomes (protein synthesis)
• Mitochondria (energy generation)
• Golgi complex (secretion/packaging)
• Lysosomes (intracellular digestion)
• Centrioles (cilia/flagella)`,
		Transitions: []Transition{
			{Label: "See PLANT EUKARYOTIC CELL", Target: ChapterPlant},
			{Label: "Back to CELL TYPES", Target: ChapterTypes},
			{Label: "Go to Levels of organization", Target: ChapterLevels},
		},
	},
	{
		ID:    ChapterPlant,
		Title: "Plant eukaryotic cell",
		Image: ImagePlant,
		Body: `🧩 CHAPTER 4 — PLANT EUKARYOTIC CELL

Similar to the animal cell (membrane, cytosol, ribosomes, E.R., mitochondria, Golgi complex, nucleus).
Specific highlights:
• Cell wall (cellulose)
• Vacuoles (storage, mostly water)
• Chloroplasts (photosynthesis → glucose)`,
		Transitions: []Transition{
			{Label: "See ANIMAL EUKARYOTIC CELL", Target: ChapterAnimal},
			{Label: "Back to CELL TYPES", Target: ChapterTypes},
			{Label: "Go to Levels of organization", Target: ChapterLevels},
		},
	},
	{
		ID:    ChapterLevels,
		Title: "Levels of organization",
		Image: ImageLevels,
		Body: `🧩 CHAPTER 5 — LEVELS OF ORGANIZATION

Cell → Tissue → Organ → System → Organism.`,
		Transitions: []Transition{
			{Label: "Tissues", Target: ChapterTissues},
			{Label: "Back to Cell types", Target: ChapterTypes},
		},
	},
	{
		ID:    ChapterTissues,
		Title: "Tissues",
		Image: ImageTissues,
		Body: `🧩 CHAPTER 6 — TISSUES (Animal)

• Epithelial: lining/barrier
• Connective: connection/support/defense/filling/transport (includes BLOOD)
• Muscular: contraction (voluntary or not)
• Nervous: impulses; interpreting and storing information`,
		Transitions: []Transition{
			{Label: "Back to start", Target: ChapterWelcome},
			{Label: "Back to Cell types", Target: ChapterTypes},
		},
	},
}
