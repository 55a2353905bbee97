package feedback

// System prompt for the feedback generation call.
const systemPrompt = `You are an expert ATS and resume analyzer providing specific, actionable feedback. Format your response clearly with headings and bullet points.`

// User prompt template. Placeholders: job role, found skills, job role,
// missing skills.
const userPromptTemplate = `You are an expert ATS (Applicant Tracking System) and resume analyzer.
Analyze this resume for the %s position and provide specific, actionable feedback.

Skills found in resume: %s
Skills missing for %s: %s

Please provide detailed, specific, and actionable feedback in the following format:

1. Overall Assessment: Brief summary of how well the resume matches the role
2. Missing Critical Skills: Top 3-5 skills that are essential for this role
3. Strengths: What the resume does well
4. Improvement Suggestions: 3-5 specific ways to improve the resume
5. Keyword Optimization: Suggestions for ATS-friendly keywords
6. Action Items: 2-3 concrete steps the user should take

Be specific, constructive, and encouraging. Focus on actionable items that will
improve the resume's ATS score and chances of getting an interview.`
