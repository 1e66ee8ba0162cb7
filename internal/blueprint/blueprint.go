// Package blueprint defines the AWS DVA-C02 exam content blueprint: the
// four knowledge domains, their exam weights, per-set question counts and
// the numbered tasks used to diversify question generation.
package blueprint

// Exam-wide constants matching the official DVA-C02 format.
const (
	ExamName         = "AWS Certified Developer Associate (DVA-C02)"
	TotalQuestions   = 65
	ScoredQuestions  = 50
	TimeLimitSeconds = 7800 // 130 minutes
	PassingScore     = 720
	TotalSets        = 25
)

// Task is a numbered sub-objective within a domain.
type Task struct {
	Number      int
	Description string
}

// Domain describes one knowledge domain of the exam.
type Domain struct {
	Name            string
	Weight          float64
	QuestionsPerSet int
	Tasks           []Task // ordered by task number
	Services        []string
	Concepts        []string
}

// Blueprint is the immutable exam content configuration. Build it once at
// startup with Default and pass it explicitly — never mutate it.
type Blueprint struct {
	domains []Domain
	byName  map[string]*Domain
}

// Default returns the DVA-C02 blueprint.
func Default() *Blueprint {
	domains := []Domain{
		{
			Name:            "development",
			Weight:          0.32,
			QuestionsPerSet: 21,
			Tasks: []Task{
				{1, "Develop code for applications hosted on AWS"},
				{2, "Develop code for AWS Lambda"},
				{3, "Use data stores in application development"},
			},
			Services: []string{"Lambda", "API Gateway", "DynamoDB", "S3", "SQS", "SNS", "Kinesis", "Step Functions"},
			Concepts: []string{"Event-driven architecture", "Microservices", "Serverless", "APIs", "SDKs"},
		},
		{
			Name:            "security",
			Weight:          0.26,
			QuestionsPerSet: 17,
			Tasks: []Task{
				{1, "Implement authentication and/or authorization for applications and AWS services"},
				{2, "Implement encryption by using AWS services"},
				{3, "Manage sensitive data in application code"},
			},
			Services: []string{"IAM", "Cognito", "KMS", "Secrets Manager", "STS", "Certificate Manager"},
			Concepts: []string{"Least privilege", "RBAC", "Encryption", "JWT", "OAuth", "SAML"},
		},
		{
			Name:            "deployment",
			Weight:          0.24,
			QuestionsPerSet: 16,
			Tasks: []Task{
				{1, "Prepare application artifacts to be deployed to AWS"},
				{2, "Test applications in development environments"},
				{3, "Automate deployment testing"},
				{4, "Deploy code by using AWS CI/CD services"},
			},
			Services: []string{"CodePipeline", "CodeBuild", "CodeDeploy", "CloudFormation", "SAM", "CDK"},
			Concepts: []string{"CI/CD", "Blue/green deployment", "Canary deployment", "IaC", "Testing"},
		},
		{
			Name:            "troubleshooting",
			Weight:          0.18,
			QuestionsPerSet: 11,
			Tasks: []Task{
				{1, "Assist in a root cause analysis"},
				{2, "Instrument code for observability"},
				{3, "Optimize applications by using AWS services and features"},
			},
			Services: []string{"CloudWatch", "X-Ray", "CloudTrail", "ElastiCache"},
			Concepts: []string{"Monitoring", "Logging", "Tracing", "Performance optimization", "Debugging"},
		},
	}

	byName := make(map[string]*Domain, len(domains))
	for i := range domains {
		byName[domains[i].Name] = &domains[i]
	}

	return &Blueprint{domains: domains, byName: byName}
}

// Domains returns the domains in blueprint order.
func (b *Blueprint) Domains() []Domain {
	return b.domains
}

// Domain looks up a domain by name.
func (b *Blueprint) Domain(name string) (Domain, bool) {
	d, ok := b.byName[name]
	if !ok {
		return Domain{}, false
	}
	return *d, true
}

// DomainNames returns all domain names in blueprint order.
func (b *Blueprint) DomainNames() []string {
	names := make([]string, len(b.domains))
	for i, d := range b.domains {
		names[i] = d.Name
	}
	return names
}

// RequestedDistribution returns the per-domain question counts a composed
// set is asked to contain. Callers must treat this as the generation
// target, not a tally of what the content provider actually delivered.
func (b *Blueprint) RequestedDistribution() map[string]int {
	dist := make(map[string]int, len(b.domains))
	for _, d := range b.domains {
		dist[d.Name] = d.QuestionsPerSet
	}
	return dist
}
