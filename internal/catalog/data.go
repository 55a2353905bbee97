package catalog

// builtinRoles is the default skill dictionary, keyed by role name.
// Skill names keep their display casing; matching lower-cases them.
var builtinRoles = map[string][]string{
	"Frontend Developer": {
		"JavaScript", "React", "Vue.js", "Angular", "HTML", "CSS",
		"TypeScript", "jQuery", "SASS", "LESS", "Webpack", "Babel",
		"RESTful APIs", "Git", "Responsive Design", "CSS Frameworks",
		"Testing", "Jest", "Cypress", "Enzyme", "Next.js", "Redux",
		"GraphQL", "Material UI", "Tailwind CSS", "Bootstrap", "AJAX",
	},
	"Backend Developer": {
		"Node.js", "Python", "Java", "C#", "PHP", "Ruby", "Go",
		"Express.js", "Django", "Flask", "Spring Boot", "ASP.NET",
		"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Docker",
		"RESTful APIs", "GraphQL", "Git", "Testing", "Jest", "Mocha",
		"AWS", "Azure", "GCP", "Microservices", "CI/CD", "Kubernetes",
		"RabbitMQ", "Apache Kafka", "OAuth", "JWT", "Elasticsearch",
	},
	"Full Stack Developer": {
		"JavaScript", "React", "Vue.js", "Angular", "HTML", "CSS",
		"Node.js", "Python", "Express.js", "Django", "SQL", "MongoDB",
		"TypeScript", "RESTful APIs", "Git", "Docker", "AWS", "Testing",
		"Next.js", "Redux", "PostgreSQL", "Redis", "GraphQL", "JWT",
	},
	"Data Scientist": {
		"Python", "R", "SQL", "Pandas", "NumPy", "Matplotlib", "Seaborn",
		"Scikit-learn", "TensorFlow", "PyTorch", "Jupyter", "Statistics",
		"Machine Learning", "Deep Learning", "Data Visualization",
		"Big Data", "Hadoop", "Spark", "Tableau", "Power BI", "Excel",
		"Data Mining", "Statistical Analysis", "NLP", "Computer Vision", "Pyspark",
	},
	"DevOps Engineer": {
		"Docker", "Kubernetes", "Jenkins", "GitLab CI", "GitHub Actions",
		"AWS", "Azure", "GCP", "Terraform", "Ansible", "Chef", "Puppet",
		"Linux", "Bash", "Monitoring", "Logging", "Prometheus", "Grafana",
		"Git", "Infrastructure as Code", "Security", "Networking", "Vault",
		"Helm", "Istio", "Prometheus", "ELK Stack", "Vagrant",
	},
	"Mobile Developer": {
		"React Native", "Flutter", "Swift", "Kotlin", "Java", "iOS",
		"Android", "Xamarin", "Ionic", "Cordova", "Firebase", "REST APIs",
		"UI/UX", "Testing", "Git", "Agile", "Material Design", "SwiftUI",
		"Xcode", "Android Studio", "Realm", "Redux", "Jest",
	},
	"UI/UX Designer": {
		"Figma", "Adobe XD", "Sketch", "Photoshop", "Illustrator",
		"UI Design", "UX Design", "Prototyping", "Wireframing",
		"User Research", "Usability Testing", "Interaction Design",
		"Visual Design", "Typography", "Color Theory", "HTML/CSS",
		"Responsive Design", "Accessibility", "Design Systems", "InVision",
		"Principle", "Framer", "User Journey", "Information Architecture",
	},
	"Project Manager": {
		"Agile", "Scrum", "Kanban", "Jira", "Trello", "Asana",
		"Project Planning", "Risk Management", "Stakeholder Management",
		"Budget Management", "Team Leadership", "Communication",
		"MS Project", "Resource Management", "Timeline Management",
		"Quality Assurance", "Documentation", "Process Improvement",
		"Lean", "Six Sigma", "PMP", "Stakeholder Engagement",
	},
	"Machine Learning Engineer": {
		"Python", "TensorFlow", "PyTorch", "Keras", "Scikit-learn",
		"Pandas", "NumPy", "Jupyter", "Data Science", "Statistics",
		"Machine Learning", "Deep Learning", "NLP", "Computer Vision",
		"Data Mining", "Feature Engineering", "Model Deployment",
		"Cloud Platforms", "Big Data", "Spark", "Docker", "Kubernetes",
	},
	"Cybersecurity Specialist": {
		"Security Analysis", "Vulnerability Assessment", "Penetration Testing",
		"Network Security", "Firewalls", "SIEM", "Incident Response",
		"Risk Management", "Compliance", "Cryptography", "SOC",
		"IDS/IPS", "Security Tools", "Threat Hunting", "Forensics",
		"CISSP", "CEH", "CompTIA Security+", "OSCP",
	},
	"Cloud Engineer": {
		"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
		"Cloud Architecture", "Serverless", "Lambda", "EC2", "S3",
		"IAM", "VPC", "Load Balancers", "Auto Scaling", "Monitoring",
		"CI/CD", "Infrastructure as Code", "Cloud Security", "Migration",
	},
}
