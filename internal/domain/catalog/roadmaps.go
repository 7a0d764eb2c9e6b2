package catalog

// Career path ids.
const (
	WebDeveloper    = "web_developer"
	DataScientist   = "data_scientist"
	MobileDeveloper = "mobile_developer"
	DevOpsEngineer  = "devops_engineer"
	UIUXDesigner    = "ui_ux_designer"
)

func skill(name string, level Level, duration string, resources ...string) Skill {
	return Skill{Name: name, Level: level, Duration: duration, Resources: resources}
}

func defaultPaths() []CareerPath {
	return []CareerPath{
		{
			ID:          WebDeveloper,
			Title:       "Web Developer",
			Description: "Full-stack web development path",
			Skills: []Skill{
				skill("HTML", LevelBeginner, "2 weeks", "MDN Web Docs", "freeCodeCamp"),
				skill("CSS", LevelBeginner, "3 weeks", "CSS Tricks", "Flexbox Froggy"),
				skill("JavaScript", LevelIntermediate, "8 weeks", "JavaScript.info", "Eloquent JavaScript"),
				skill("Git & GitHub", LevelBeginner, "1 week", "Git Documentation", "GitHub Learning Lab"),
				skill("React", LevelAdvanced, "6 weeks", "React Docs", "Full Stack Open"),
				skill("Node.js", LevelIntermediate, "4 weeks", "Node.js Docs", "NodeSchool"),
				skill("Database (SQL/MongoDB)", LevelIntermediate, "3 weeks", "PostgreSQL Tutorial", "MongoDB University"),
				skill("Build Projects", LevelAdvanced, "Ongoing", "GitHub", "Portfolio Projects"),
			},
		},
		{
			ID:          DataScientist,
			Title:       "Data Scientist",
			Description: "Data science and machine learning path",
			Skills: []Skill{
				skill("Python Basics", LevelBeginner, "3 weeks", "Python.org", "Codecademy"),
				skill("Statistics & Math", LevelIntermediate, "6 weeks", "Khan Academy", "StatQuest"),
				skill("NumPy & Pandas", LevelIntermediate, "4 weeks", "Pandas Docs", "DataCamp"),
				skill("Data Visualization", LevelIntermediate, "2 weeks", "Matplotlib", "Seaborn", "Plotly"),
				skill("Machine Learning", LevelAdvanced, "8 weeks", "Scikit-learn", "Coursera ML"),
				skill("Deep Learning", LevelAdvanced, "6 weeks", "TensorFlow", "PyTorch", "Fast.ai"),
				skill("SQL & Databases", LevelIntermediate, "3 weeks", "Mode Analytics", "SQLZoo"),
				skill("Build Portfolio Projects", LevelAdvanced, "Ongoing", "Kaggle", "GitHub"),
			},
		},
		{
			ID:          MobileDeveloper,
			Title:       "Mobile App Developer",
			Description: "iOS and Android development path",
			Skills: []Skill{
				skill("Programming Fundamentals", LevelBeginner, "3 weeks", "Codecademy", "SoloLearn"),
				skill("Java/Kotlin (Android)", LevelIntermediate, "6 weeks", "Android Developers", "Udacity"),
				skill("Swift (iOS)", LevelIntermediate, "6 weeks", "Swift.org", "Hacking with Swift"),
				skill("React Native/Flutter", LevelAdvanced, "5 weeks", "React Native Docs", "Flutter Docs"),
				skill("UI/UX Design Basics", LevelBeginner, "2 weeks", "Material Design", "Human Interface Guidelines"),
				skill("API Integration", LevelIntermediate, "3 weeks", "RESTful APIs", "GraphQL"),
				skill("App Publishing", LevelIntermediate, "1 week", "Google Play Console", "App Store Connect"),
				skill("Build Portfolio Apps", LevelAdvanced, "Ongoing", "GitHub", "Portfolio"),
			},
		},
		{
			ID:          DevOpsEngineer,
			Title:       "DevOps Engineer",
			Description: "DevOps and cloud infrastructure path",
			Skills: []Skill{
				skill("Linux & Command Line", LevelBeginner, "3 weeks", "Linux Journey", "OverTheWire"),
				skill("Networking Basics", LevelBeginner, "2 weeks", "Cisco Networking Basics", "Computer Networking Course"),
				skill("Git & Version Control", LevelBeginner, "1 week", "Git Documentation", "Atlassian Git Tutorial"),
				skill("Docker & Containers", LevelIntermediate, "4 weeks", "Docker Docs", "Play with Docker"),
				skill("CI/CD Pipelines", LevelIntermediate, "3 weeks", "Jenkins", "GitHub Actions", "GitLab CI"),
				skill("Cloud Platforms (AWS/Azure/GCP)", LevelAdvanced, "8 weeks", "AWS Training", "Azure Learn", "GCP Training"),
				skill("Kubernetes", LevelAdvanced, "6 weeks", "Kubernetes Docs", "KodeKloud"),
				skill("Infrastructure as Code", LevelAdvanced, "4 weeks", "Terraform", "Ansible"),
			},
		},
		{
			ID:          UIUXDesigner,
			Title:       "UI/UX Designer",
			Description: "User interface and experience design path",
			Skills: []Skill{
				skill("Design Fundamentals", LevelBeginner, "3 weeks", "Design Principles", "Laws of UX"),
				skill("Figma/Adobe XD", LevelBeginner, "4 weeks", "Figma Tutorial", "Adobe XD Learn"),
				skill("User Research", LevelIntermediate, "3 weeks", "Nielsen Norman Group", "UX Research Methods"),
				skill("Wireframing & Prototyping", LevelIntermediate, "4 weeks", "Balsamiq", "InVision"),
				skill("Visual Design", LevelIntermediate, "5 weeks", "Refactoring UI", "Design Systems"),
				skill("Interaction Design", LevelAdvanced, "4 weeks", "Interaction Design Foundation", "Microinteractions"),
				skill("Usability Testing", LevelIntermediate, "2 weeks", "UserTesting.com", "Hotjar"),
				skill("Build Portfolio", LevelAdvanced, "Ongoing", "Behance", "Dribbble"),
			},
		},
	}
}
