package services

import "fmt"

// PromptBuilder renders the three extraction prompts. The JSON keys named in
// the templates are a wire contract with the persistence models; changing
// one here means changing the tolerant decode types too. The "recomendation"
// key is spelled that way on purpose.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const resumeExtractionTemplate = `You are a professional resume parser. Your task is to extract relevant information from this resume:
%s

Extract the name, email, phone number, technical skills, soft skills, job titles, companies, work experience, education and certifications.
Make sure to extract all the relevant experience and do not summarize or remove any information from the original resume content.
Return the response as JSON with the following keys:
"name": <name of the candidate>
"email": <email of the candidate>
"phone": <phone number of the candidate>
"summary": <professional summary or objective stated by the candidate>
"skills": <skills mentioned in the resume under two sub categories:
    "technical_skills": <list of technical skills>,
    "soft_skills": <list of soft skills>>
"work_history": <list of work experience entries, each with the structure:
    {"company_name": <company name>,
     "job_title": <job title>,
     "start_date": <start date>,
     "end_date": <end date>,
     "location": <location>}>
"education": <list of degrees and educational qualifications>
"certifications": <list of certifications with name, date of certification and issuing authority>
"professional_experience": <summary of professional experience with the structure:
    "total_years": <approximate years>,
    "domains": ["domain1", "domain2", ...],
    "positions": ["position1", "position2", ...],
    "achievements": ["achievement1", "achievement2", ...]>
You must return relevant information in a structured JSON format.`

const jobExtractionTemplate = `You are a professional job description parser.
Your task is to extract relevant information from this job description:
%s

Extract the job title, company name, key responsibilities, required skills, preferred skills, qualification requirements and any other relevant information.
You must return relevant information in a structured format and do not summarize or remove any information.
Return the result as JSON with the following keys:
"external_job_id": <job id or unique identifier mentioned in the job description>
"job_title": <job title mentioned in the job description>
"company_name": <company name mentioned in the job description>
"required_experience": <list of required years of experience and any specific experience requirements mentioned explicitly>
"key_responsibilities": <list of key responsibilities mentioned in the job description>
"required_skills": <required skills under two categories:
    "technical_skills": <list of technical skills mentioned in the job description>,
    "soft_skills": <list of soft skills mentioned in the job description, for example communication, leadership, teamwork>>
"qualifications": <list of required degrees, certifications and educational qualifications>
"must_haves": <list of any other must-have skills or qualifications mentioned in the job description>
"nice_to_haves": <list of nice-to-have skills or qualifications mentioned in the job description>
"importance_scores": <map from each identified skill or qualification to an importance score from 1-5 where:
    5: explicitly stated as essential/required/must-have
    4: strongly emphasized but not explicitly required
    3: mentioned multiple times or with moderate emphasis
    2: mentioned once without emphasis
    1: implicitly mentioned or inferred>
Strictly follow the format and do not fabricate any information outside of the job description context provided.`

const comparisonTemplate = `You are a professional at analyzing resumes and matching them with the job description provided.
Analyze and evaluate how well this resume matches the job description.
Resume:
%s
Job Description:
%s

Provide the following:
1. An overall match score from 0-100
2. Detailed feedback on candidate strengths against the given job requirements
3. Specific suggestions and recommendations for how the candidate could improve their resume based on the job description provided
4. A list of any requirements or skills from the job description that are missing from the resume
5. Strengths and weaknesses of the candidate resume when matched against the job description
Return the result as JSON with the following keys:
"email": <email of the candidate from the resume>
"name": <name of the candidate from the resume>
"external_job_id": <job id or unique identifier mentioned in the job description>
"overall_score": <an overall match score from 0-100>
"feedback": <detailed feedback on why the candidate is a good match, or not a great match if the score is below 50>
"suggestions": <detailed suggestions on how the candidate can improve their resume specific to the provided job description>
"recomendation": <detailed recommendation to improve the resume based on the job description requirements and missing skills>
"gaps": <list of any requirements or skills from the job description that are missing from the resume>
"weaknesses": <list of weaknesses of the candidate resume when matched against the job description>
"strengths": <list of skill strengths of the candidate resume against the requirements in the job description>
Your final response must be in JSON format.`

func (b *PromptBuilder) ResumeExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(resumeExtractionTemplate, resumeText)
}

func (b *PromptBuilder) JobExtractionPrompt(jobText string) string {
	return fmt.Sprintf(jobExtractionTemplate, jobText)
}

func (b *PromptBuilder) ComparisonPrompt(resumeText, jobText string) string {
	return fmt.Sprintf(comparisonTemplate, resumeText, jobText)
}
