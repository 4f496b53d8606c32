package gemini

// extractPrompt is the fixed instruction sent with every prescription image.
// The response contract (field names, defaults, "JSON array only") is what
// the prescription package normalizes against.
const extractPrompt = `
Analyze this image of a medical prescription.
For each distinct medicine listed, extract the following information:
- **name**: The name of the medicine (e.g., "Paracetamol", "Amoxicillin").
- **quantity**: The dosage or quantity (e.g., "500mg", "1 tablet", "2.5ml"). If not explicitly mentioned, infer from context if possible or leave empty.
- **duration**: The duration of use in number of days (e.g., "for 7 days", "5 days"). Extract only the number. If not specified, use a default value of -1.
- **meal**: When to take the medicine relative to meals (e.g., "after meal", "before meal", "with food", "empty stomach"). If not specified, use "anytime".
- **frequency**: How often to take the medicine (e.g., "twice a day", "daily", "every 8 hours"). If mentioned as (1-0-1), convert it to "twice a day". If not specified, leave empty.

Return the information as a JSON array of objects.
Example of expected JSON structure:
[
    {
        "name": "Medicine A",
        "quantity": "500mg",
        "duration": 7,
        "meal": "after meal",
        "frequency": "twice a day"
    },
    {
        "name": "Medicine B",
        "quantity": "1 tablet",
        "duration": 5,
        "meal": "before meal",
        "frequency": "daily"
    }
]
If no medicine information is found, return an empty array ` + "`[]`" + `.
Do not include any other text or formatting, just the JSON array.
`
