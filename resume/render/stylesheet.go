package render

// stylesheet covers all three layouts; the sheet's template-<name> class selects one.
const stylesheet = `:root{--font-head:'Poppins',sans-serif;--font-body:'Roboto',sans-serif;--c-text:#333;--c-primary:#1a73e8;--c-dark:#202124;--c-light-gray:#f1f3f4;--c-gray:#e8eaed;}
body{margin:0;background-color:#f8f9fa;font-family:var(--font-body);color:var(--c-text);line-height:1.6;}
.toolbar{position:sticky;top:0;background:rgba(255,255,255,0.98);padding:10px;display:flex;justify-content:center;gap:10px;align-items:center;z-index:20;border-bottom:1px solid var(--c-gray);}
.toolbar select,.toolbar button{font-family:var(--font-body);padding:8px 12px;border-radius:6px;border:1px solid #ccc;background:#fff;cursor:pointer;font-weight:600;}
.toolbar .download{background:var(--c-primary);color:#fff;border-color:transparent;}
.sheet{width:100%;max-width:8.5in;min-height:11in;margin:20px auto;background:#fff;box-shadow:0 1px 3px rgba(0,0,0,0.1);padding:0.5in;box-sizing:border-box;transition:all 0.2s ease;}
a{text-decoration:none;color:var(--c-primary);}
a:hover{text-decoration:underline;}
h1{font-family:var(--font-head);font-weight:700;margin:0;}
.section{margin-bottom:24px;}
.section-title{font-family:var(--font-head);font-size:1.2rem;font-weight:600;text-transform:uppercase;letter-spacing:1px;color:var(--c-primary);border-bottom:2px solid var(--c-light-gray);padding-bottom:6px;margin-bottom:16px;}
.item{margin-bottom:16px;}
.item-title{font-size:1.1rem;font-weight:700;margin:0;}
.item-subtitle{font-size:1rem;color:#5f6368;font-style:italic;margin:2px 0 6px;}
.item-desc,.item-detail{font-size:0.95rem;margin:4px 0;}
.item-link{font-size:0.9rem;font-style:italic;}
.contact-info{display:flex;flex-wrap:wrap;gap:15px;align-items:center;}
.skill-tags{display:flex;flex-wrap:wrap;gap:8px;}
.skill-tag{background:var(--c-light-gray);color:var(--c-text);padding:5px 12px;border-radius:15px;font-size:0.9rem;}
.template-marquee .marquee-header{background:var(--c-dark);color:#fff;padding:40px;text-align:center;margin:-0.5in -0.5in 30px -0.5in;}
.template-marquee .marquee-header h1{font-size:3.5rem;color:#fff;}
.template-marquee .marquee-header .contact-info{color:#bdc1c6;justify-content:center;margin-top:15px;}
.template-marquee .marquee-header a{color:#fff;}
.template-infographic{display:grid;grid-template-columns:1fr 250px;gap:40px;}
.template-infographic h1{font-size:3rem;margin-bottom:10px;color:var(--c-dark);}
.template-infographic .infographic-sidebar .contact-item{display:block;margin-bottom:10px;}
.template-infographic .infographic-sidebar .section{margin-top:30px;}
.skill-bar-item{margin-bottom:12px;}
.skill-bar-item p{margin:0 0 5px;font-weight:bold;}
.skill-bar{width:100%;height:8px;background:var(--c-gray);border-radius:4px;}
.skill-level{width:90%;height:100%;background:var(--c-primary);border-radius:4px;}
.template-timeline .timeline-header{text-align:center;margin-bottom:30px;}
.template-timeline h1{font-size:3rem;margin-bottom:10px;}
.template-timeline .contact-info{justify-content:center;}
.template-timeline .timeline-container{position:relative;padding-left:30px;}
.template-timeline .timeline-container::before{content:'';position:absolute;left:5px;top:5px;bottom:5px;width:3px;background:var(--c-gray);}
.template-timeline .timeline-item{position:relative;margin-bottom:20px;}
.template-timeline .timeline-marker{position:absolute;left:-24px;top:5px;width:13px;height:13px;background:var(--c-primary);border-radius:50%;border:2px solid #fff;}
@media print{body{background:#fff;}.toolbar{display:none;}.sheet{margin:0;box-shadow:none;}}
`
