package pretest

// Likert scale item texts, answered 1 (strongly disagree) to 5 (strongly
// agree).

var readingEfficacyItems = []string{
	"I grasp the main point when reading academic papers or books.",
	"With enough effort I can understand academic papers or books well.",
	"I can tell important ideas from minor details while reading.",
	"I can follow a complex argument across several paragraphs.",
	"I can summarize an academic text in my own words.",
	"I notice when I have stopped understanding what I am reading.",
	"I can work out unfamiliar terms from their context.",
	"I can connect what I read to things I already know.",
	"I can evaluate whether a text's evidence supports its claims.",
	"I stay focused when reading long academic texts.",
	"I am confident in my overall academic reading ability.",
}

var curiosityItems = []string{
	"I enjoy learning about topics that are new to me.",
	"When I notice a gap in my knowledge, I want to fill it.",
	"I ask questions about how things work.",
	"I find unfamiliar ideas exciting rather than stressful.",
	"I like exploring a topic beyond what is required.",
	"Difficult problems make me want to dig deeper.",
	"I often look things up out of pure interest.",
	"I enjoy discussing ideas that challenge my views.",
	"New situations make me want to explore.",
	"I am the kind of person who wonders about things.",
}

var aiAttitudeItems = []string{
	"AI tools are useful for learning.",
	"AI will have a positive effect on education.",
	"I feel comfortable using AI tools.",
	"AI tools help me work more efficiently.",
	"I am interested in new AI technologies.",
	"Using AI tools is a good way to improve my skills.",
	"AI suggestions are worth considering seriously.",
	"I would recommend AI tools to other students.",
}

var aiTrustItems = []string{
	"I trust the answers AI tools give me.",
	"AI tools usually understand what I am asking.",
	"I can rely on AI tools for important tasks.",
	"AI-generated suggestions are generally accurate.",
	"I believe AI tools handle my input responsibly.",
	"AI tools behave predictably.",
	"When an AI tool gives advice, I take it seriously.",
	"I am comfortable depending on AI tools.",
	"AI tools rarely mislead me.",
}
